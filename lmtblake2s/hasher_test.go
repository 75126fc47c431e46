package lmtblake2s_test

import (
	"encoding/hex"
	"fmt"
	"os"
	"testing"

	"github.com/stretchr/testify/require"
	"github.com/tidwall/gjson"

	"github.com/celestiaorg/lmt"
	"github.com/celestiaorg/lmt/lmtblake2s"
	"github.com/celestiaorg/lmt/lmttest"
)

func TestCompliance(t *testing.T) {
	t.Parallel()

	for _, size := range []int{1, 6, 64, 136} {
		t.Run(fmt.Sprintf("input size %d", size), func(t *testing.T) {
			lmttest.TestHasherCompliance(t, func() lmt.Hasher {
				return lmtblake2s.New(size)
			})
		})
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

		got, err := lmt.HashOne(lmtblake2s.New(len(in)), in)
		require.NoError(t, err)
		require.Equal(t, v.Get("digest").String(), hex.EncodeToString(got))
	}
}
