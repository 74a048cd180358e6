package smsxml

import (
	"strings"
	"testing"
)

const sampleBackup = `<?xml version="1.0" encoding="UTF-8"?>
<smses count="2">
  <sms protocol="0" address="M-Money" date="1704877200000" type="1" body="You have received 5,000 RWF from Jane Doe (**1234) at 2024-01-10 09:00:00. Your new balance: 15,000 RWF. Financial Transaction Id: 999111." service_center="+250788110381" date_sent="1704877195000" readable_date="10 Jan 2024 09:00:00" contact_name="(Unknown)" />
  <sms protocol="0" address="AIRTEL" date="1704877300000" type="1" body="Promo text" service_center="" date_sent="0" readable_date="10 Jan 2024 09:01:40" contact_name="(Unknown)" />
</smses>`

func TestDecode(t *testing.T) {
	msgs, err := Decode(strings.NewReader(sampleBackup))
	if err != nil {
		t.Fatalf("expected decode ok, got err: %v", err)
	}
	if len(msgs) != 2 {
		t.Fatalf("expected 2 messages, got %d", len(msgs))
	}

	first := msgs[0]
	if first.Address != "M-Money" {
		t.Fatalf("wrong address: %q", first.Address)
	}
	if first.DateMs != 1704877200000 {
		t.Fatalf("wrong date ms: %d", first.DateMs)
	}
	if first.DateSentMs != 1704877195000 {
		t.Fatalf("wrong date sent ms: %d", first.DateSentMs)
	}
	if first.Type != 1 {
		t.Fatalf("wrong type: %d", first.Type)
	}
	if !strings.Contains(first.Body, "Financial Transaction Id: 999111") {
		t.Fatalf("body not preserved: %q", first.Body)
	}
	if msgs[1].Address != "AIRTEL" {
		t.Fatalf("wrong second address: %q", msgs[1].Address)
	}
}

func TestDecodeRejectsMalformedXML(t *testing.T) {
	if _, err := Decode(strings.NewReader("<smses><sms")); err == nil {
		t.Fatalf("expected error for malformed xml")
	}
}
