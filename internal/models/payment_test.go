package models

import (
	"encoding/json"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

func TestDateScan(t *testing.T) {
	tests := []struct {
		name    string
		src     any
		want    string
		wantErr bool
	}{
		{name: "time from driver", src: time.Date(2024, time.January, 15, 0, 0, 0, 0, time.FixedZone("COT", -5*3600)), want: "2024-01-15"},
		{name: "string", src: "2024-02-29", want: "2024-02-29"},
		{name: "bytes with time suffix", src: []byte("2024-03-01T00:00:00Z"), want: "2024-03-01"},
		{name: "null", src: nil, wantErr: true},
		{name: "garbage", src: "yesterday", wantErr: true},
		{name: "unsupported type", src: 42, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var d Date
			err := d.Scan(tt.src)
			if (err != nil) != tt.wantErr {
				t.Fatalf("Scan() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err == nil && d.String() != tt.want {
				t.Errorf("Scan() = %s, want %s", d, tt.want)
			}
		})
	}
}

func TestDateValue(t *testing.T) {
	v, err := NewDate(2024, time.January, 5).Value()
	if err != nil {
		t.Fatal(err)
	}
	if v != "2024-01-05" {
		t.Errorf("Value() = %v, want 2024-01-05", v)
	}
}

func TestPaymentResponseJSON(t *testing.T) {
	resp := NewPaymentResponse(Payment{
		ID:           3,
		CreditNumber: "C1",
		Amount:       decimal.RequireFromString("100.00"),
		Date:         NewDate(2024, time.January, 15),
		CreatedAt:    time.Now(),
	})

	data, err := json.Marshal(resp)
	if err != nil {
		t.Fatal(err)
	}
	want := `{"id":3,"numeroCredito":"C1","valor":100.00,"fecha":"2024-01-15"}`
	if string(data) != want {
		t.Errorf("json = %s, want %s", data, want)
	}

	var back PaymentResponse
	if err := json.Unmarshal(data, &back); err != nil {
		t.Fatal(err)
	}
	if back.Fecha.String() != "2024-01-15" || !back.Valor.Equal(resp.Valor) {
		t.Errorf("decoded = %+v", back)
	}
}

func TestPaymentResponseAmountScale(t *testing.T) {
	for amount, want := range map[string]string{"7.5": `"valor":7.50`, "0.01": `"valor":0.01`, "12": `"valor":12.00`} {
		data, err := json.Marshal(PaymentResponse{Valor: decimal.RequireFromString(amount), Fecha: NewDate(2024, time.January, 15)})
		if err != nil {
			t.Fatal(err)
		}
		if !strings.Contains(string(data), want) {
			t.Errorf("json for %s = %s, want %s", amount, data, want)
		}
	}
}

func TestNewPaymentResponsesEmpty(t *testing.T) {
	data, err := json.Marshal(NewPaymentResponses(nil))
	if err != nil {
		t.Fatal(err)
	}
	if string(data) != "[]" {
		t.Errorf("json = %s, want []", data)
	}
}

func TestNewErrorResponse(t *testing.T) {
	at := time.Date(2024, time.January, 15, 14, 3, 9, 500, time.UTC)
	resp := NewErrorResponse(409, "duplicado", at)
	if resp.Timestamp != "2024-01-15T14:03:09" {
		t.Errorf("Timestamp = %q", resp.Timestamp)
	}
	if resp.Status != 409 || resp.Message != "duplicado" {
		t.Errorf("resp = %+v", resp)
	}
}
