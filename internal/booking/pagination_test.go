package booking

import "testing"

func TestNormalizePage_Defaults(t *testing.T) {
	page, size, offset := NormalizePage(0, 0)
	if page != 1 || size != defaultPageSize || offset != 0 {
		t.Fatalf("expected defaults, got page=%d size=%d offset=%d", page, size, offset)
	}
}

func TestNormalizePage_Offset(t *testing.T) {
	_, _, offset := NormalizePage(3, 20)
	if offset != 40 {
		t.Fatalf("expected offset 40, got %d", offset)
	}
}

func TestNewPage_Meta(t *testing.T) {
	p := NewPage([]int{1, 2, 3}, 2, 3, 10)
	if !p.HasPrev {
		t.Fatalf("expected HasPrev on page 2")
	}
	if !p.HasNext {
		t.Fatalf("expected HasNext with 10 total and page end at 6")
	}
	if p.Total != 10 {
		t.Fatalf("expected total 10, got %d", p.Total)
	}
}

func TestNewPage_LastPage(t *testing.T) {
	p := NewPage([]int{1}, 4, 3, 10)
	if p.HasNext {
		t.Fatalf("expected no next page after the last item")
	}
}
