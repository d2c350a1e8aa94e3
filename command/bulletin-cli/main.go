// SPDX-License-Identifier: ISC
// Copyright (c) 2019-2020 Bulletin Network developers.
// Use of this source code is governed by an ISC
// license that can be found in the LICENSE file.

package main

import (
	"encoding/hex"
	"os"
	"strings"

	"github.com/bitmark-inc/exitwithstatus"
	"github.com/urfave/cli"

	"github.com/bulletin-network/bulletind/crypto"
	"github.com/bulletin-network/bulletind/transaction"
)

// set by the linker: go build -ldflags "-X main.version=M.N" ./...
var version = "zero" // do not change this value

type globalFlags struct {
	verbose bool
	connect string
	key     string
}

func main() {
	// ensure exit handler is first
	defer exitwithstatus.Handler()

	globals := globalFlags{}

	app := cli.NewApp()
	app.Name = "bulletin-cli"
	app.Usage = "connect to a bulletind node"
	app.Version = version
	app.HideVersion = true
	app.Flags = []cli.Flag{
		cli.BoolFlag{
			Name:        "verbose, v",
			Usage:       " verbose result",
			Destination: &globals.verbose,
		},
		cli.StringFlag{
			Name:        "connect, x",
			Value:       "127.0.0.1:2130",
			Usage:       " bulletind host/IP and port, HOST:PORT",
			Destination: &globals.connect,
		},
		cli.StringFlag{
			Name:        "key, k",
			Value:       "",
			Usage:       " hex encoded private key",
			Destination: &globals.key,
		},
	}
	app.Commands = []cli.Command{
		{
			Name:      "generate",
			Usage:     "generate a key pair, does not contact the node",
			ArgsUsage: "\n   (* = required)",
			Flags:     []cli.Flag{},
			Action: func(c *cli.Context) error {
				runGenerate(c, globals)
				return nil
			},
		},
		{
			Name:      "request",
			Aliases:   []string{"accept"},
			Usage:     "send a relationship request; run from the other side to accept",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "secret, s",
					Value: "",
					Usage: "*counterparty bulletin secret",
				},
				cli.StringFlag{
					Name:  "node-secret, n",
					Value: "",
					Usage: "*bulletin secret of the node",
				},
				cli.Uint64Flag{
					Name:  "value",
					Usage: " value carried by the transaction",
				},
				cli.Uint64Flag{
					Name:  "fee",
					Usage: " fee paid to the miner",
				},
				cli.StringFlag{
					Name:  "inputs, i",
					Value: "",
					Usage: " comma separated transaction ids to spend",
				},
			},
			Action: func(c *cli.Context) error {
				runRequest(c, globals)
				return nil
			},
		},
		{
			Name:      "post",
			Usage:     "publish a post readable by friends",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "text, t",
					Value: "",
					Usage: "*post body",
				},
				cli.Uint64Flag{
					Name:  "value",
					Usage: " value carried by the transaction",
				},
				cli.Uint64Flag{
					Name:  "fee",
					Usage: " fee paid to the miner",
				},
				cli.StringFlag{
					Name:  "inputs, i",
					Value: "",
					Usage: " comma separated transaction ids to spend",
				},
			},
			Action: func(c *cli.Context) error {
				runPost(c, globals)
				return nil
			},
		},
		{
			Name:      "message",
			Usage:     "send a private message to a counterparty",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "secret, s",
					Value: "",
					Usage: "*counterparty bulletin secret",
				},
				cli.StringFlag{
					Name:  "text, t",
					Value: "",
					Usage: "*message body",
				},
				cli.Uint64Flag{
					Name:  "value",
					Usage: " value carried by the transaction",
				},
				cli.Uint64Flag{
					Name:  "fee",
					Usage: " fee paid to the miner",
				},
				cli.StringFlag{
					Name:  "inputs, i",
					Value: "",
					Usage: " comma separated transaction ids to spend",
				},
			},
			Action: func(c *cli.Context) error {
				runMessage(c, globals)
				return nil
			},
		},
		{
			Name:      "transfer",
			Usage:     "transfer value to another address",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "to",
					Value: "",
					Usage: "*destination address",
				},
				cli.Uint64Flag{
					Name:  "value",
					Usage: "*value to transfer",
				},
				cli.Uint64Flag{
					Name:  "fee",
					Usage: " fee paid to the miner",
				},
				cli.StringFlag{
					Name:  "inputs, i",
					Value: "",
					Usage: "*comma separated transaction ids to spend",
				},
			},
			Action: func(c *cli.Context) error {
				runTransfer(c, globals)
				return nil
			},
		},
		{
			Name:      "login",
			Usage:     "record a login transaction answering a challenge",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "node-secret, n",
					Value: "",
					Usage: "*bulletin secret of the node",
				},
				cli.StringFlag{
					Name:  "challenge, c",
					Value: "",
					Usage: "*challenge code issued by the node",
				},
			},
			Action: func(c *cli.Context) error {
				runLogin(c, globals)
				return nil
			},
		},
		{
			Name:      "balance",
			Usage:     "balance and unspent outputs of an address",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "address, a",
					Value: "",
					Usage: "*address to query",
				},
			},
			Action: func(c *cli.Context) error {
				runBalance(c, globals)
				return nil
			},
		},
		{
			Name:      "graph",
			Usage:     "derive the social view for a bulletin secret",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "secret, s",
					Value: "",
					Usage: " viewer bulletin secret, blank with --for-me for the node's own view",
				},
				cli.BoolFlag{
					Name:  "for-me",
					Usage: " view from the node's own identity",
				},
			},
			Action: func(c *cli.Context) error {
				runGraph(c, globals)
				return nil
			},
		},
		{
			Name:      "txns",
			Usage:     "list transactions recorded under a relationship id",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "rid, r",
					Value: "",
					Usage: "*relationship id",
				},
			},
			Action: func(c *cli.Context) error {
				runTxns(c, globals)
				return nil
			},
		},
		{
			Name:  "info",
			Usage: "node status summary",
			Action: func(c *cli.Context) error {
				runInfo(c, globals)
				return nil
			},
		},
		{
			Name:      "mine",
			Usage:     "fetch work batches and submit shares",
			ArgsUsage: "\n   (* = required)",
			Flags: []cli.Flag{
				cli.StringFlag{
					Name:  "address, a",
					Value: "",
					Usage: "*address credited with shares",
				},
				cli.IntFlag{
					Name:  "batches, b",
					Value: 1,
					Usage: " number of work batches to grind",
				},
			},
			Action: func(c *cli.Context) error {
				runMine(c, globals)
				return nil
			},
		},
	}

	if err := app.Run(os.Args); nil != err {
		exitwithstatus.Message("Error: %s", err)
	}
}

func mustKey(globals globalFlags) *keyData {
	if "" == globals.key {
		exitwithstatus.Message("Error: missing --key")
	}
	key, err := decodeKey(globals.key)
	if nil != err {
		exitwithstatus.Message("Error: key decode: %s", err)
	}
	return key
}

func mustString(c *cli.Context, name string) string {
	value := c.String(name)
	if "" == value {
		exitwithstatus.Message("Error: missing --%s", name)
	}
	return value
}

func inputList(c *cli.Context) []string {
	raw := c.String("inputs")
	if "" == raw {
		return nil
	}
	return strings.Split(raw, ",")
}

func runGenerate(c *cli.Context, globals globalFlags) {
	publicKey, privateKey, err := crypto.GenerateKeypair()
	if nil != err {
		exitwithstatus.Message("Error: key generation: %s", err)
	}
	bulletinSecret, err := crypto.BulletinSecret(privateKey)
	if nil != err {
		exitwithstatus.Message("Error: bulletin secret: %s", err)
	}
	address, err := crypto.Address(hex.EncodeToString(publicKey))
	if nil != err {
		exitwithstatus.Message("Error: address: %s", err)
	}

	printJson("", map[string]string{
		"private_key":     hex.EncodeToString(privateKey),
		"public_key":      hex.EncodeToString(publicKey),
		"address":         address,
		"bulletin_secret": bulletinSecret,
	})
}

func runRequest(c *cli.Context, globals globalFlags) {
	key := mustKey(globals)
	tx, err := makeRelationshipRequest(
		key,
		mustString(c, "secret"),
		mustString(c, "node-secret"),
		c.Uint64("value"),
		c.Uint64("fee"),
		inputList(c),
	)
	if nil != err {
		exitwithstatus.Message("Error: request build: %s", err)
	}
	submit(globals, tx)
}

func runPost(c *cli.Context, globals globalFlags) {
	key := mustKey(globals)
	tx, err := makePost(key, mustString(c, "text"), c.Uint64("value"), c.Uint64("fee"), inputList(c))
	if nil != err {
		exitwithstatus.Message("Error: post build: %s", err)
	}
	submit(globals, tx)
}

func runMessage(c *cli.Context, globals globalFlags) {
	key := mustKey(globals)
	tx, err := makeMessage(key, mustString(c, "secret"), mustString(c, "text"), c.Uint64("value"), c.Uint64("fee"), inputList(c))
	if nil != err {
		exitwithstatus.Message("Error: message build: %s", err)
	}
	submit(globals, tx)
}

func runTransfer(c *cli.Context, globals globalFlags) {
	key := mustKey(globals)
	tx, err := makeTransfer(key, mustString(c, "to"), c.Uint64("value"), c.Uint64("fee"), inputList(c))
	if nil != err {
		exitwithstatus.Message("Error: transfer build: %s", err)
	}
	submit(globals, tx)
}

func runLogin(c *cli.Context, globals globalFlags) {
	key := mustKey(globals)
	tx, err := makeLogin(key, mustString(c, "node-secret"), mustString(c, "challenge"))
	if nil != err {
		exitwithstatus.Message("Error: login build: %s", err)
	}
	submit(globals, tx)
}

func runBalance(c *cli.Context, globals globalFlags) {
	if err := getWallet(globals.connect, mustString(c, "address"), globals.verbose); nil != err {
		exitwithstatus.Message("Error: %s", err)
	}
}

func runGraph(c *cli.Context, globals globalFlags) {
	if err := getGraph(globals.connect, c.String("secret"), c.Bool("for-me"), globals.verbose); nil != err {
		exitwithstatus.Message("Error: %s", err)
	}
}

func runTxns(c *cli.Context, globals globalFlags) {
	if err := getTransactionsByRid(globals.connect, mustString(c, "rid"), globals.verbose); nil != err {
		exitwithstatus.Message("Error: %s", err)
	}
}

func runInfo(c *cli.Context, globals globalFlags) {
	if err := getInfo(globals.connect, globals.verbose); nil != err {
		exitwithstatus.Message("Error: %s", err)
	}
}

func runMine(c *cli.Context, globals globalFlags) {
	address := mustString(c, "address")
	batches := c.Int("batches")
	for i := 0; i < batches; i += 1 {
		if err := mineBatch(globals.connect, address, globals.verbose); nil != err {
			exitwithstatus.Message("Error: %s", err)
		}
	}
}

func submit(globals globalFlags, tx *transaction.Transaction) {
	if err := submitTransaction(globals.connect, tx, globals.verbose); nil != err {
		exitwithstatus.Message("Error: %s", err)
	}
}
