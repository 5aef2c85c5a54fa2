package zk_test

import (
	"crypto/rand"
	"errors"
	"testing"

	"github.com/proof-essentials/proof-essentials-go/pkg/essentials"
	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/curve"
	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/transcript"
	"github.com/proof-essentials/proof-essentials-go/pkg/essentials/zk"
)

func mustScalar(t *testing.T) curve.Scalar {
	t.Helper()
	s, err := curve.RandomScalar(rand.Reader)
	if err != nil {
		t.Fatalf("random scalar: %v", err)
	}
	return s
}

func mustPoint(t *testing.T) curve.Point {
	t.Helper()
	p, err := curve.RandomPoint(rand.Reader)
	if err != nil {
		t.Fatalf("random point: %v", err)
	}
	return p
}

func TestSchnorrHonest(t *testing.T) {
	g := mustPoint(t)
	sk := mustScalar(t)
	pk := g.Mul(sk)

	proof, err := zk.ProveSchnorr(&zk.SchnorrProveParams{
		Generator:  g,
		PublicKey:  pk,
		SecretKey:  sk,
		Transcript: transcript.New([]byte("test_schnorr")),
		Rand:       rand.Reader,
	})
	if err != nil {
		t.Fatalf("ProveSchnorr: %v", err)
	}

	err = zk.VerifySchnorr(&zk.SchnorrVerifyParams{
		Proof:      proof,
		Generator:  g,
		PublicKey:  pk,
		Transcript: transcript.New([]byte("test_schnorr")),
	})
	if err != nil {
		t.Fatalf("VerifySchnorr: %v", err)
	}

	raw, err := proof.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	var decoded zk.SchnorrProof
	if err := decoded.UnmarshalBinary(raw); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}
	if !decoded.R.Equal(proof.R) || !decoded.S.Equal(proof.S) {
		t.Fatalf("decoded proof differs")
	}
}

func TestSchnorrWrongWitness(t *testing.T) {
	g := mustPoint(t)
	pk := g.Mul(mustScalar(t))

	proof, err := zk.ProveSchnorr(&zk.SchnorrProveParams{
		Generator:  g,
		PublicKey:  pk,
		SecretKey:  mustScalar(t),
		Transcript: transcript.New([]byte("test_schnorr")),
		Rand:       rand.Reader,
	})
	if err != nil {
		t.Fatalf("ProveSchnorr: %v", err)
	}

	err = zk.VerifySchnorr(&zk.SchnorrVerifyParams{
		Proof:      proof,
		Generator:  g,
		PublicKey:  pk,
		Transcript: transcript.New([]byte("test_schnorr")),
	})
	var verr *essentials.VerificationError
	if !errors.As(err, &verr) || verr.Proof != zk.SchnorrProofName {
		t.Fatalf("expected Schnorr verification error, got %v", err)
	}
}

func TestSchnorrTranscriptMismatch(t *testing.T) {
	g := curve.Generator()
	sk := mustScalar(t)
	pk := g.Mul(sk)

	proof, err := zk.ProveSchnorr(&zk.SchnorrProveParams{
		Generator: g, PublicKey: pk, SecretKey: sk,
		Transcript: transcript.New([]byte("prover")),
		Rand:       rand.Reader,
	})
	if err != nil {
		t.Fatalf("ProveSchnorr: %v", err)
	}
	err = zk.VerifySchnorr(&zk.SchnorrVerifyParams{
		Proof: proof, Generator: g, PublicKey: pk,
		Transcript: transcript.New([]byte("verifier")),
	})
	if !errors.Is(err, essentials.ErrProofVerification) {
		t.Fatalf("expected verification failure, got %v", err)
	}
}

func TestSchnorrParamValidation(t *testing.T) {
	if _, err := zk.ProveSchnorr(nil); err == nil {
		t.Fatal("expected error for nil params")
	}
	if _, err := zk.ProveSchnorr(&zk.SchnorrProveParams{Rand: rand.Reader}); err == nil {
		t.Fatal("expected error for nil transcript")
	}
	if _, err := zk.ProveSchnorr(&zk.SchnorrProveParams{Transcript: transcript.New(nil)}); err == nil {
		t.Fatal("expected error for nil rand")
	}
	if err := zk.VerifySchnorr(&zk.SchnorrVerifyParams{}); err == nil {
		t.Fatal("expected error for nil transcript")
	}
}

func dleqStatement(t *testing.T) (g, h, a, b curve.Point, x curve.Scalar) {
	t.Helper()
	g, h = mustPoint(t), mustPoint(t)
	x = mustScalar(t)
	return g, h, g.Mul(x), h.Mul(x), x
}

func TestDLEQHonest(t *testing.T) {
	g, h, a, b, x := dleqStatement(t)

	proof, err := zk.ProveDLEQ(&zk.DLEQProveParams{
		G: g, H: h, A: a, B: b, Exponent: x,
		Transcript: transcript.New([]byte("test_chaum_pedersen")),
		Rand:       rand.Reader,
	})
	if err != nil {
		t.Fatalf("ProveDLEQ: %v", err)
	}

	raw, err := proof.MarshalBinary()
	if err != nil {
		t.Fatalf("MarshalBinary: %v", err)
	}
	var decoded zk.DLEQProof
	if err := decoded.UnmarshalBinary(raw); err != nil {
		t.Fatalf("UnmarshalBinary: %v", err)
	}

	err = zk.VerifyDLEQ(&zk.DLEQVerifyParams{
		Proof: decoded, G: g, H: h, A: a, B: b,
		Transcript: transcript.New([]byte("test_chaum_pedersen")),
	})
	if err != nil {
		t.Fatalf("VerifyDLEQ: %v", err)
	}
}

func TestDLEQUnequalLogs(t *testing.T) {
	g, h, a, _, x := dleqStatement(t)
	b := h.Mul(mustScalar(t))

	proof, err := zk.ProveDLEQ(&zk.DLEQProveParams{
		G: g, H: h, A: a, B: b, Exponent: x,
		Transcript: transcript.New([]byte("test_chaum_pedersen")),
		Rand:       rand.Reader,
	})
	if err != nil {
		t.Fatalf("ProveDLEQ: %v", err)
	}

	err = zk.VerifyDLEQ(&zk.DLEQVerifyParams{
		Proof: proof, G: g, H: h, A: a, B: b,
		Transcript: transcript.New([]byte("test_chaum_pedersen")),
	})
	var verr *essentials.VerificationError
	if !errors.As(err, &verr) || verr.Proof != zk.DLEQProofName {
		t.Fatalf("expected Chaum-Pedersen verification error, got %v", err)
	}
}

func TestDLEQMalformedEncoding(t *testing.T) {
	var p zk.DLEQProof
	if err := p.UnmarshalBinary([]byte{1, 2, 3}); !errors.Is(err, essentials.ErrEncoding) {
		t.Fatalf("expected ErrEncoding, got %v", err)
	}
}
