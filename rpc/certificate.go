// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Bulletin Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"io/ioutil"
	"os"
	"time"

	"github.com/bitmark-inc/certgen"

	"github.com/bitmark-inc/logger"
)

const certificateLifetime = 10 * 365 * 24 * time.Hour

// create a self-signed pair when either file is missing
func ensureCertificate(log *logger.L, certificateFileName string, keyFileName string) error {

	if fileExists(certificateFileName) && fileExists(keyFileName) {
		return nil
	}

	log.Infof("generating self-signed certificate: %s", certificateFileName)

	org := "bulletind self signed cert"
	validUntil := time.Now().Add(certificateLifetime)
	cert, key, err := certgen.NewTLSCertPair(org, validUntil, false, nil)
	if nil != err {
		return err
	}

	if err := ioutil.WriteFile(certificateFileName, cert, 0666); nil != err {
		return err
	}
	if err := ioutil.WriteFile(keyFileName, key, 0600); nil != err {
		os.Remove(certificateFileName)
		return err
	}
	return nil
}

func fileExists(name string) bool {
	info, err := os.Stat(name)
	return nil == err && info.Mode().IsRegular()
}
