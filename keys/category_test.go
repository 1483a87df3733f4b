package keys

import (
	"bytes"
	"testing"
)

func TestCategorizeKey(t *testing.T) {
	t.Parallel()

	pk := bytes.Repeat([]byte{7}, 48)
	cases := []struct {
		key  []byte
		want KeyCategory
	}{
		{KeyNonce(pk), CategoryNonce},
		{KeyBalance(pk, []byte("AMA")), CategoryBalance},
		{KeyTotalSupply([]byte("USDX")), CategoryCoinMeta},
		{KeyCoinOwner([]byte("USDX")), CategoryCoinMeta},
		{KeyCoinPaused([]byte("USDX")), CategoryCoinMeta},
		{KeyBytecode(pk), CategoryContract},
		{[]byte(KeySegmentVRHash), CategoryEpoch},
		{KeySolutionCount(3, pk), CategoryEpoch},
		{[]byte("something:else"), CategoryUnknown},
	}

	for _, c := range cases {
		if got := CategorizeKey(c.key); got != c.want {
			t.Fatalf("key %q: expected %s, got %s", c.key, c.want, got)
		}
	}
}

func TestSplitBalanceKey(t *testing.T) {
	t.Parallel()

	pk := bytes.Repeat([]byte{1}, 48)
	account, symbol, ok := SplitBalanceKey(KeyBalance(pk, []byte("AMA")), 48)
	if !ok {
		t.Fatal("expected balance key to split")
	}
	if !bytes.Equal(account, pk) || string(symbol) != "AMA" {
		t.Fatalf("unexpected split: %x %q", account, symbol)
	}

	if _, _, ok := SplitBalanceKey(KeyNonce(pk), 48); ok {
		t.Fatal("nonce key must not split as balance")
	}
	if _, _, ok := SplitBalanceKey(KeyBalance(pk, nil), 48); ok {
		t.Fatal("balance key without symbol must not split")
	}
}
