package main

import (
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/vuf"
)

var vufCmd = &cobra.Command{
	Use:   "vuf [message]",
	Short: "Sign a message with FEDL and print the unique token",
	Long: `Generates a fresh key pair, signs the message, verifies the signature and
prints the public key, the signature and the token. Signing the same message
twice with the same key yields the same token.`,
	Args: cobra.ExactArgs(1),
	RunE: runVUF,
}

func runVUF(cmd *cobra.Command, args []string) error {
	msg := []byte(args[0])
	pp := vuf.DefaultParameters()
	pk, sk, err := vuf.KeyGen(pp, rand.Reader)
	if err != nil {
		return err
	}
	sig, err := vuf.Sign(pp, rand.Reader, pk, sk, msg)
	if err != nil {
		return err
	}
	if err := vuf.Verify(pp, pk, msg, sig); err != nil {
		return err
	}
	again, err := vuf.Sign(pp, rand.Reader, pk, sk, msg)
	if err != nil {
		return err
	}
	if !vuf.ExtractToken(again).Equal(vuf.ExtractToken(sig)) {
		return fmt.Errorf("token is not unique")
	}

	raw, err := sig.MarshalBinary()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	fmt.Fprintf(out, "public key: %s\n", hex.EncodeToString(pk.Bytes()))
	fmt.Fprintf(out, "signature:  %s\n", hex.EncodeToString(raw))
	fmt.Fprintf(out, "token:      %s\n", hex.EncodeToString(vuf.ExtractToken(sig).Bytes()))
	return nil
}
