package board_test

import (
	"errors"
	"testing"

	"github.com/lora-aprs/igate-go/pkg/board"
)

type fakeProber struct {
	present string
}

func (p *fakeProber) ModemPresent(b board.Config) bool {
	return b.Name == p.present
}

func TestGetByName(t *testing.T) {
	f := board.NewFinder(nil)

	b, err := f.Get("TTGO_T_Beam_V1_0")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if b.Kind != board.KindWifi {
		t.Fatalf("kind = %v, want wifi", b.Kind)
	}

	// Name matching ignores case.
	b, err = f.Get("eth_board")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if b.Kind != board.KindEthernet {
		t.Fatalf("kind = %v, want ethernet", b.Kind)
	}
}

func TestGetUnknown(t *testing.T) {
	f := board.NewFinder(nil)

	_, err := f.Get("HELTEC_V9000")
	if !errors.Is(err, board.ErrBoardUnknown) {
		t.Fatalf("err = %v, want ErrBoardUnknown", err)
	}
}

func TestSearchFindsProbedBoard(t *testing.T) {
	f := board.NewFinder(&fakeProber{present: "TTGO_LORA32_V2"})

	b, ok := f.Search()
	if !ok {
		t.Fatal("Search found no board")
	}
	if b.Name != "TTGO_LORA32_V2" {
		t.Fatalf("found %q, want TTGO_LORA32_V2", b.Name)
	}
}

func TestSearchWithoutProber(t *testing.T) {
	f := board.NewFinder(nil)

	if _, ok := f.Search(); ok {
		t.Fatal("Search succeeded without a prober")
	}
}
