// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Bulletin Network developers.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"crypto/tls"
	"encoding/json"
	"math/big"
	"net"
	netrpc "net/rpc"
	"net/rpc/jsonrpc"
	"strconv"

	"github.com/bulletin-network/bulletind/crypto"
	"github.com/bulletin-network/bulletind/graph"
	"github.com/bulletin-network/bulletind/mine"
	"github.com/bulletin-network/bulletind/rpc"
	"github.com/bulletin-network/bulletind/transaction"
)

// connect to bulletind RPC
//
// the server certificate is self signed so verification is skipped
func connect(hostPort string) (net.Conn, error) {

	tlsConfig := &tls.Config{
		InsecureSkipVerify: true,
	}

	conn, err := tls.Dial("tcp", hostPort, tlsConfig)
	if nil != err {
		return nil, err
	}

	return conn, nil
}

func withClient(hostPort string, f func(client *netrpc.Client) error) error {
	conn, err := connect(hostPort)
	if nil != err {
		return err
	}
	defer conn.Close()

	client := jsonrpc.NewClient(conn)
	defer client.Close()

	return f(client)
}

func submitTransaction(hostPort string, tx *transaction.Transaction, verbose bool) error {
	payload, err := json.Marshal(tx)
	if nil != err {
		return err
	}

	return withClient(hostPort, func(client *netrpc.Client) error {
		args := rpc.SubmitArguments{
			Payload: payload,
		}
		printJson("Submit Request", args, verbose)

		var reply rpc.SubmitReply
		if err := client.Call("Transaction.Submit", &args, &reply); nil != err {
			return err
		}
		printJson("Submit Reply", reply)
		return nil
	})
}

func getWallet(hostPort string, address string, verbose bool) error {
	return withClient(hostPort, func(client *netrpc.Client) error {
		args := rpc.WalletArguments{
			Address: address,
		}
		printJson("Wallet Request", args, verbose)

		var reply rpc.WalletReply
		if err := client.Call("Wallet.Get", &args, &reply); nil != err {
			return err
		}
		printJson("Wallet Reply", reply)
		return nil
	})
}

func getGraph(hostPort string, bulletinSecret string, forMe bool, verbose bool) error {
	return withClient(hostPort, func(client *netrpc.Client) error {
		args := rpc.GraphArguments{
			BulletinSecret: bulletinSecret,
			ForMe:          forMe,
		}
		printJson("Graph Request", args, verbose)

		var reply graph.View
		if err := client.Call("Graph.Get", &args, &reply); nil != err {
			return err
		}
		printJson("Graph Reply", reply)
		return nil
	})
}

func getTransactionsByRid(hostPort string, rid string, verbose bool) error {
	return withClient(hostPort, func(client *netrpc.Client) error {
		args := rpc.ByRidArguments{
			Rid: rid,
		}
		printJson("ByRid Request", args, verbose)

		var reply rpc.ByRidReply
		if err := client.Call("Transaction.ByRid", &args, &reply); nil != err {
			return err
		}
		printJson("ByRid Reply", reply)
		return nil
	})
}

func getInfo(hostPort string, verbose bool) error {
	return withClient(hostPort, func(client *netrpc.Client) error {
		var reply rpc.InfoReply
		if err := client.Call("Node.Info", &rpc.InfoArguments{}, &reply); nil != err {
			return err
		}
		printJson("Info Reply", reply)
		return nil
	})
}

// fetch one work batch and grind through its nonce range
//
// a winning digest is submitted immediately, otherwise the smallest
// digest of the batch is submitted as a single share
func mineBatch(hostPort string, address string, verbose bool) error {
	return withClient(hostPort, func(client *netrpc.Client) error {

		var work mine.Work
		if err := client.Call("Pool.Work", &rpc.WorkArguments{}, &work); nil != err {
			return err
		}
		printJson("Work Reply", work, verbose)

		target, ok := new(big.Int).SetString(work.Target, 16)
		if !ok {
			return nil
		}

		bestNonce := work.NonceStart
		bestDigest := ""
		var bestValue *big.Int

		for nonce := work.NonceStart; nonce <= work.NonceEnd; nonce += 1 {
			digest := crypto.Hash(work.Header + strconv.FormatUint(nonce, 10))
			value, ok := new(big.Int).SetString(digest, 16)
			if !ok {
				continue
			}

			if work.SpecialMin || value.Cmp(target) <= 0 {
				return submitShare(client, address, digest, nonce)
			}

			if nil == bestValue || value.Cmp(bestValue) < 0 {
				bestValue = value
				bestDigest = digest
				bestNonce = nonce
			}

			if nonce == work.NonceEnd { // uint64 wrap guard
				break
			}
		}

		if "" == bestDigest {
			return nil
		}
		return submitShare(client, address, bestDigest, bestNonce)
	})
}

func submitShare(client *netrpc.Client, address string, digest string, nonce uint64) error {
	args := rpc.PoolSubmitArguments{
		Address: address,
		Hash:    digest,
		Nonce:   nonce,
	}
	var reply rpc.PoolSubmitReply
	if err := client.Call("Pool.Submit", &args, &reply); nil != err {
		return err
	}
	printJson("Pool Reply", reply)
	return nil
}
