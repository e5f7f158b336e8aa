package multiplex

import (
	"bytes"
	"testing"

	"github.com/obscurcore/obsc/internal/csprng"
)

func seededEntropy(t *testing.T, b byte) *csprng.Source {
	t.Helper()
	key := bytes.Repeat([]byte{b}, 32)
	nonce := bytes.Repeat([]byte{b ^ 0xFF}, 8)
	src, err := csprng.NewStreamSource(key, nonce)
	if err != nil {
		t.Fatalf("NewStreamSource: %v", err)
	}
	return src
}

func testItems() []ItemSource {
	return []ItemSource{
		{ID: "a", Data: bytes.Repeat([]byte("A"), 37)},
		{ID: "b", Data: bytes.Repeat([]byte("B"), 113)},
		{ID: "c", Data: bytes.Repeat([]byte("C"), 5)},
	}
}

func roundTripLayout(t *testing.T, layout Layout, withPadStreams bool) {
	t.Helper()
	items := testItems()

	var out bytes.Buffer
	wctx := &WriteContext{
		Entropy:    seededEntropy(t, 0x10),
		Items:      items,
		Output:     &out,
		MinPadding: 4,
		MaxPadding: 16,
		MinStripe:  3,
		MaxStripe:  11,
	}
	if withPadStreams {
		wctx.PadContent = seededEntropy(t, 0x20)
	}
	if err := layout.Write(wctx); err != nil {
		t.Fatalf("Write: %v", err)
	}

	sinks := make([]*bytes.Buffer, len(items))
	readItems := make([]ItemSink, len(items))
	for i, it := range items {
		sinks[i] = &bytes.Buffer{}
		readItems[i] = ItemSink{ID: it.ID, Length: len(it.Data), Buf: sinks[i]}
	}
	rctx := &ReadContext{
		Entropy:    seededEntropy(t, 0x10),
		Items:      readItems,
		Input:      bytes.NewReader(out.Bytes()),
		MinPadding: 4,
		MaxPadding: 16,
		MinStripe:  3,
		MaxStripe:  11,
	}
	if err := layout.Read(rctx); err != nil {
		t.Fatalf("Read: %v", err)
	}

	for i, it := range items {
		if !bytes.Equal(sinks[i].Bytes(), it.Data) {
			t.Fatalf("item %s mismatch: got %q want %q", it.ID, sinks[i].Bytes(), it.Data)
		}
	}
}

func TestSimpleRoundTrip(t *testing.T) {
	roundTripLayout(t, Simple{}, false)
}

func TestFrameshiftRoundTrip(t *testing.T) {
	roundTripLayout(t, Frameshift{}, true)
}

func TestFabricRoundTrip(t *testing.T) {
	roundTripLayout(t, Fabric{}, false)
}

func TestFrameshiftReportsOverhead(t *testing.T) {
	items := testItems()
	var out bytes.Buffer
	wctx := &WriteContext{
		Entropy:    seededEntropy(t, 0x30),
		PadContent: seededEntropy(t, 0x40),
		Items:      items,
		Output:     &out,
		MinPadding: 8,
		MaxPadding: 512,
	}
	if err := (Frameshift{}).Write(wctx); err != nil {
		t.Fatalf("Write: %v", err)
	}
	if wctx.Overhead <= 0 {
		t.Fatalf("expected positive padding overhead, got %d", wctx.Overhead)
	}
	totalItemBytes := 0
	for _, it := range items {
		totalItemBytes += len(it.Data)
	}
	if out.Len() != totalItemBytes+wctx.Overhead {
		t.Fatalf("output length %d != items %d + overhead %d", out.Len(), totalItemBytes, wctx.Overhead)
	}
}

func TestSimpleTruncatedPayload(t *testing.T) {
	items := testItems()
	var out bytes.Buffer
	wctx := &WriteContext{Entropy: seededEntropy(t, 0x50), Items: items, Output: &out}
	if err := (Simple{}).Write(wctx); err != nil {
		t.Fatalf("Write: %v", err)
	}

	truncated := out.Bytes()[:out.Len()-1]
	sinks := make([]ItemSink, len(items))
	for i, it := range items {
		sinks[i] = ItemSink{ID: it.ID, Length: len(it.Data), Buf: &bytes.Buffer{}}
	}
	rctx := &ReadContext{Entropy: seededEntropy(t, 0x50), Items: sinks, Input: bytes.NewReader(truncated)}
	if err := (Simple{}).Read(rctx); err == nil {
		t.Fatalf("expected a truncation error")
	}
}
