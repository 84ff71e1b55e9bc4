// Copyright 2024 The evmaot Authors
// This file is part of the evmaot library.
//
// The evmaot library is free software: you can redistribute it and/or modify
// it under the terms of the GNU Lesser General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// The evmaot library is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE. See the
// GNU Lesser General Public License for more details.
//
// You should have received a copy of the GNU Lesser General Public License
// along with the evmaot library. If not, see <http://www.gnu.org/licenses/>.

// evmaot runs a single contract's bytecode against a bare host.Context,
// the smoke-test driver spec.md §6 describes ("CLI (collaborator, out of
// scope): program <bytecode_path> ... used only for smoke tests"), in the
// shape of the teacher's cmd/evm (--code/--input/--gas/--value flags, a
// one-shot call into the contract, printed OUT/GAS USED/GAS REFUND summary
// followed by a FAULT or REVERTED line when the call did not succeed).
package main

import (
	"encoding/hex"
	"fmt"
	"os"

	"github.com/holiman/uint256"
	"github.com/urfave/cli/v2"

	"github.com/evmaot/evmaot/executor"
	"github.com/evmaot/evmaot/host"
	"github.com/evmaot/evmaot/internal/xlog"
)

var (
	codeFileFlag = &cli.StringFlag{
		Name:     "code",
		Usage:    "path to a file containing EVM bytecode as hex text",
		Required: true,
	}
	inputFlag = &cli.StringFlag{
		Name:  "input",
		Usage: "calldata as hex text",
	}
	gasFlag = &cli.Uint64Flag{
		Name:  "gas",
		Usage: "gas limit for the invocation",
		Value: 10_000_000,
	}
	valueFlag = &cli.StringFlag{
		Name:  "value",
		Usage: "callvalue as a decimal integer",
		Value: "0",
	}
	verboseFlag = &cli.BoolFlag{
		Name:  "debug",
		Usage: "enable debug-level logging",
	}
)

func main() {
	app := &cli.App{
		Name:  "evmaot",
		Usage: "run a single EVM contract invocation against the reference backend",
		Flags: []cli.Flag{codeFileFlag, inputFlag, gasFlag, valueFlag, verboseFlag},
		Action: run,
	}
	if err := app.Run(os.Args); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func run(c *cli.Context) error {
	if c.Bool(verboseFlag.Name) {
		xlog.SetVerbosity(xlog.Debug)
	}

	codeHex, err := os.ReadFile(c.String(codeFileFlag.Name))
	if err != nil {
		return fmt.Errorf("reading code file: %w", err)
	}
	code, err := hex.DecodeString(trimHexPrefix(string(codeHex)))
	if err != nil {
		return fmt.Errorf("decoding code as hex: %w", err)
	}

	input, err := hex.DecodeString(trimHexPrefix(c.String(inputFlag.Name)))
	if err != nil {
		return fmt.Errorf("decoding --input as hex: %w", err)
	}

	value := new(uint256.Int)
	if err := value.SetFromDecimal(c.String(valueFlag.Name)); err != nil {
		return fmt.Errorf("malformed --value %q: %w", c.String(valueFlag.Name), err)
	}

	var caller, contract host.Address
	caller[19] = 1
	contract[19] = 2

	tx := host.TxEnv{Caller: caller, Origin: caller, Value: *value, Data: input}
	block := host.BlockEnv{Number: 1, GasLimit: c.Uint64(gasFlag.Name)}
	chain := host.ChainEnv{ChainID: 1}

	db := host.NewMemoryDatabase()
	db.Codes[contract] = code

	exec := executor.New(executor.DefaultOptions())
	result, err := exec.Execute(code, tx, block, chain, db, contract, c.Uint64(gasFlag.Name))
	if err != nil {
		return fmt.Errorf("execute: %w", err)
	}

	fmt.Printf("OUT: 0x%x\n", result.ReturnData)
	fmt.Printf("GAS USED: %d\n", result.GasUsed)
	fmt.Printf("GAS REFUND: %d\n", result.GasRefund)
	if result.Halted() {
		fmt.Printf("FAULT: %s\n", result.FaultReason)
	} else if result.Reverted() {
		fmt.Println("REVERTED")
	}
	return nil
}

func trimHexPrefix(s string) string {
	s = trimSpace(s)
	if len(s) >= 2 && s[0] == '0' && (s[1] == 'x' || s[1] == 'X') {
		return s[2:]
	}
	return s
}

// trimSpace strips leading/trailing ASCII whitespace, trailing newlines
// included, the shape a bytecode file written by a text editor actually has.
func trimSpace(s string) string {
	start := 0
	for start < len(s) && isSpace(s[start]) {
		start++
	}
	end := len(s)
	for end > start && isSpace(s[end-1]) {
		end--
	}
	return s[start:end]
}

func isSpace(b byte) bool {
	return b == ' ' || b == '\t' || b == '\n' || b == '\r'
}
