// Package smsxml reads Android SMS backup XML files into raw message
// records for the importer.
package smsxml

import (
	"encoding/xml"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/kagabo/momoledger/internal/momo"
)

type backup struct {
	XMLName xml.Name `xml:"smses"`
	SMS     []sms    `xml:"sms"`
}

type sms struct {
	Protocol      string `xml:"protocol,attr"`
	Address       string `xml:"address,attr"`
	Date          string `xml:"date,attr"`
	Type          string `xml:"type,attr"`
	Body          string `xml:"body,attr"`
	ServiceCenter string `xml:"service_center,attr"`
	DateSent      string `xml:"date_sent,attr"`
	ReadableDate  string `xml:"readable_date,attr"`
	ContactName   string `xml:"contact_name,attr"`
}

// Load reads a backup file from disk.
func Load(path string) ([]momo.RawInput, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("failed to open backup file: %w", err)
	}
	defer f.Close()
	return Decode(f)
}

// Decode parses backup XML into raw inputs, preserving document order.
// Malformed numeric attributes decode to zero rather than failing the file.
func Decode(r io.Reader) ([]momo.RawInput, error) {
	var b backup
	if err := xml.NewDecoder(r).Decode(&b); err != nil {
		return nil, fmt.Errorf("failed to decode backup xml: %w", err)
	}

	msgs := make([]momo.RawInput, 0, len(b.SMS))
	for _, s := range b.SMS {
		msgs = append(msgs, momo.RawInput{
			Protocol:      s.Protocol,
			Address:       s.Address,
			DateMs:        parseInt64(s.Date),
			Type:          int(parseInt64(s.Type)),
			Body:          s.Body,
			ServiceCenter: s.ServiceCenter,
			DateSentMs:    parseInt64(s.DateSent),
			ReadableDate:  s.ReadableDate,
			ContactName:   s.ContactName,
		})
	}
	return msgs, nil
}

func parseInt64(s string) int64 {
	n, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0
	}
	return n
}
