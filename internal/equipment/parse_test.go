package equipment

import "testing"

func TestParsePage_BareArray(t *testing.T) {
	page := ParsePage([]byte(`[{"id":"1","nome":"Monitor"},{"id":"2","nome":"Bomba"}]`))

	if len(page.Items) != 2 {
		t.Fatalf("expected 2 items, got %d", len(page.Items))
	}
	if page.Items[0].ID != "1" || page.Items[1].Nome != "Bomba" {
		t.Errorf("unexpected items: %+v", page.Items)
	}
	if page.Meta != nil {
		t.Error("bare array carries no meta")
	}
}

func TestParsePage_DataEnvelope(t *testing.T) {
	page := ParsePage([]byte(`{"data":[{"id":"1"}],"meta":{"total":11,"page":1,"limit":10,"totalPages":2}}`))

	if len(page.Items) != 1 {
		t.Fatalf("expected 1 item, got %d", len(page.Items))
	}
	if page.Meta == nil || page.Meta.TotalPages == nil || *page.Meta.TotalPages != 2 {
		t.Errorf("expected meta with totalPages 2, got %+v", page.Meta)
	}
}

func TestParsePage_ItemsEnvelope(t *testing.T) {
	page := ParsePage([]byte(`{"items":[{"id":"7"}],"meta":{"total":1,"page":1,"limit":10}}`))

	if len(page.Items) != 1 || page.Items[0].ID != "7" {
		t.Fatalf("unexpected items: %+v", page.Items)
	}
	if page.Meta == nil {
		t.Fatal("expected meta")
	}
	if page.Meta.TotalPages != nil {
		t.Error("absent totalPages must stay nil")
	}
}

func TestParsePage_DataWinsOverItems(t *testing.T) {
	page := ParsePage([]byte(`{"data":[{"id":"d"}],"items":[{"id":"i"}]}`))

	if len(page.Items) != 1 || page.Items[0].ID != "d" {
		t.Errorf("expected data envelope to take priority, got %+v", page.Items)
	}
}

func TestParsePage_DefensiveFallbacks(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"empty body", ""},
		{"garbage", "not json"},
		{"object without arrays", `{"message":"ok"}`},
		{"string body", `"hello"`},
		{"number body", `42`},
		{"malformed array", `[{"id":1}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			page := ParsePage([]byte(tt.body))
			if len(page.Items) != 0 || page.Meta != nil {
				t.Errorf("expected empty page, got %+v", page)
			}
		})
	}
}

func TestParsePage_EmptyDataArray(t *testing.T) {
	page := ParsePage([]byte(`{"data":[],"meta":{"totalPages":0}}`))
	if page.Items == nil || len(page.Items) != 0 {
		t.Errorf("expected empty but present items, got %+v", page.Items)
	}
}

func TestStatus_Labels(t *testing.T) {
	if got := StatusEmManutencao.Label(); got != "Under maintenance" {
		t.Errorf("unexpected label %q", got)
	}
	unknown := Status("QUARENTENA")
	if unknown.Known() {
		t.Error("unexpected known status")
	}
	if got := unknown.Label(); got != "Unknown" {
		t.Errorf("expected unknown bucket, got %q", got)
	}
	// The underlying value is preserved verbatim.
	if string(unknown) != "QUARENTENA" {
		t.Errorf("status value mutated: %q", unknown)
	}
}
