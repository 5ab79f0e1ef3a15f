package pagination

import (
	"testing"
	"time"
)

func TestPaginationParamsValidate(t *testing.T) {
	tests := []struct {
		name        string
		page        int
		perPage     int
		wantPage    int
		wantPerPage int
	}{
		{"defaults applied", 0, 0, 1, 15},
		{"negative page", -3, 20, 1, 20},
		{"per page capped", 2, 500, 2, 100},
		{"valid passes through", 3, 25, 3, 25},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p := PaginationParams{Page: tt.page, PerPage: tt.perPage}
			p.Validate()
			if p.Page != tt.wantPage || p.PerPage != tt.wantPerPage {
				t.Errorf("Validate() = %d/%d, want %d/%d", p.Page, p.PerPage, tt.wantPage, tt.wantPerPage)
			}
		})
	}
}

func TestNewPagination(t *testing.T) {
	p := NewPagination(2, 15, 31)
	if p.TotalPages != 3 {
		t.Errorf("total pages = %d, want 3", p.TotalPages)
	}
	if !p.HasNext || !p.HasPrev {
		t.Errorf("has_next=%v has_prev=%v, want both true on a middle page", p.HasNext, p.HasPrev)
	}

	last := NewPagination(3, 15, 31)
	if last.HasNext {
		t.Error("last page should not have a next page")
	}
}

func TestCursorRoundTrip(t *testing.T) {
	createdAt := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	encoded := EncodeCursor("abc-123", createdAt)

	params := CursorParams{Cursor: encoded}
	cursor, err := params.DecodeCursor()
	if err != nil {
		t.Fatalf("DecodeCursor() error = %v", err)
	}
	if cursor.ID != "abc-123" || !cursor.CreatedAt.Equal(createdAt) {
		t.Errorf("decoded = %+v, want abc-123 @ %v", cursor, createdAt)
	}
}

func TestDecodeCursorEmpty(t *testing.T) {
	params := CursorParams{}
	cursor, err := params.DecodeCursor()
	if err != nil || cursor != nil {
		t.Errorf("empty cursor: got %v, %v, want nil, nil", cursor, err)
	}
}

func TestDecodeCursorInvalid(t *testing.T) {
	for _, raw := range []string{"not base64 !!!", "bm90IGpzb24"} {
		params := CursorParams{Cursor: raw}
		if _, err := params.DecodeCursor(); err == nil {
			t.Errorf("DecodeCursor(%q) should fail", raw)
		}
	}
}

type row struct {
	id        string
	createdAt time.Time
}

func TestNewCursorPagination(t *testing.T) {
	base := time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC)
	rows := []row{
		{"a", base},
		{"b", base.Add(time.Minute)},
		{"c", base.Add(2 * time.Minute)},
	}

	// Fetched limit+1: the extra row signals another page and is trimmed.
	pag, items := NewCursorPagination(rows, 2,
		func(r row) string { return r.id },
		func(r row) time.Time { return r.createdAt },
	)
	if len(items) != 2 {
		t.Fatalf("items = %d, want 2", len(items))
	}
	if !pag.HasNext {
		t.Error("has_next should be set when an extra row came back")
	}
	if pag.NextCursor == nil {
		t.Fatal("next cursor missing")
	}

	decoded, err := (&CursorParams{Cursor: *pag.NextCursor}).DecodeCursor()
	if err != nil {
		t.Fatal(err)
	}
	if decoded.ID != "b" {
		t.Errorf("next cursor points at %q, want the last returned row b", decoded.ID)
	}

	// Exactly limit rows means no further page.
	pag, items = NewCursorPagination(rows[:2], 2,
		func(r row) string { return r.id },
		func(r row) time.Time { return r.createdAt },
	)
	if pag.HasNext || len(items) != 2 {
		t.Errorf("has_next=%v items=%d, want false/2 when no extra row", pag.HasNext, len(items))
	}
}
