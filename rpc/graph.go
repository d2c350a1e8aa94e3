// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Bulletin Network developers
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package rpc

import (
	"golang.org/x/time/rate"

	"github.com/bitmark-inc/logger"

	"github.com/bulletin-network/bulletind/graph"
)

// Graph - social graph derivation
type Graph struct {
	log     *logger.L
	limiter *rate.Limiter
}

// graph derivation walks the ledger, keep the rate low
const (
	graphRateLimit  = 20
	graphBurstCount = 10
)

// NewGraph - create the service
func NewGraph(log *logger.L) *Graph {
	return &Graph{
		log:     log,
		limiter: rate.NewLimiter(rate.Limit(graphRateLimit), graphBurstCount),
	}
}

// GraphArguments - whose view to derive
type GraphArguments struct {
	BulletinSecret string `json:"bulletin_secret"`
	ForMe          bool   `json:"for_me"`
}

// Get - derive the social view for a bulletin secret
func (g *Graph) Get(arguments *GraphArguments, reply *graph.View) error {

	if err := rateLimit(g.limiter); nil != err {
		return err
	}

	view, err := graph.ViewFor(arguments.BulletinSecret, arguments.ForMe)
	if nil != err {
		return err
	}
	*reply = *view
	return nil
}
