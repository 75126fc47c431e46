package lmtsha256_test

import (
	"encoding/hex"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/celestiaorg/lmt"
	"github.com/celestiaorg/lmt/lmtsha256"
	"github.com/celestiaorg/lmt/lmttest"
)

func TestCompliance(t *testing.T) {
	t.Parallel()

	for _, size := range []int{1, 6, 64, 136} {
		t.Run(fmt.Sprintf("input size %d", size), func(t *testing.T) {
			lmttest.TestHasherCompliance(t, func() lmt.Hasher {
				return lmtsha256.New(size)
			})
		})
	}

	t.Run("compressor", func(t *testing.T) {
		lmttest.TestHasherCompliance(t, func() lmt.Hasher {
			return lmtsha256.NewCompressor()
		})
	})
}

func TestCompressor_matchesHasher(t *testing.T) {
	t.Parallel()

	// Odd and even record counts go through different gohashtree paths.
	for _, n := range []int{1, 2, 3, 7, 8, 33, 1024} {
		in := make([]byte, n*64)
		for i := range in {
			in[i] = byte(i*13 + n)
		}

		want := make([]byte, n*lmtsha256.HashSize)
		require.NoError(t, lmtsha256.New(64).Hash(in, want))

		got := make([]byte, n*lmtsha256.HashSize)
		require.NoError(t, lmtsha256.NewCompressor().Hash(in, got))

		require.Equal(t, want, got, "records: %d", n)
	}
}

func TestKnownAnswers(t *testing.T) {
	t.Parallel()

	raw, err := os.ReadFile("testdata/vectors.json")
	require.NoError(t, err)
	require.True(t, gjson.ValidBytes(raw))

	vectors := gjson.GetBytes(raw, "vectors").Array()
	require.NotEmpty(t, vectors)
	for _, v := range vectors {
		in, err := hex.DecodeString(v.Get("input").String())
		require.NoError(t, err)

		got, err := lmt.HashOne(lmtsha256.New(len(in)), in)
		require.NoError(t, err)
		require.Equal(t, v.Get("digest").String(), hex.EncodeToString(got))
	}
}
