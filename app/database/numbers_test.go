package database

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFormatDocumentNumber(t *testing.T) {
	assert.Equal(t, "INV/2026/0001", FormatDocumentNumber(InvoicePrefix, 2026, 1))
	assert.Equal(t, "RCP/2026/0042", FormatDocumentNumber(ReceiptPrefix, 2026, 42))
	assert.Equal(t, "INV/2026/10000", FormatDocumentNumber(InvoicePrefix, 2026, 10000))
}

func TestParseDocumentSerial(t *testing.T) {
	serial, ok := parseDocumentSerial("INV/2026/0012", InvoicePrefix, 2026)
	assert.True(t, ok)
	assert.Equal(t, 12, serial)

	// Wrong prefix
	_, ok = parseDocumentSerial("RCP/2026/0012", InvoicePrefix, 2026)
	assert.False(t, ok)

	// Wrong year
	_, ok = parseDocumentSerial("INV/2025/0012", InvoicePrefix, 2026)
	assert.False(t, ok)

	// Garbage serial
	_, ok = parseDocumentSerial("INV/2026/00xx", InvoicePrefix, 2026)
	assert.False(t, ok)

	_, ok = parseDocumentSerial("INV/2026/0000", InvoicePrefix, 2026)
	assert.False(t, ok)
}

func TestSmallestUnusedSerial(t *testing.T) {
	assert.Equal(t, 1, smallestUnusedSerial(map[int]bool{}))
	assert.Equal(t, 3, smallestUnusedSerial(map[int]bool{1: true, 2: true}))

	// Fills gaps before extending the sequence
	assert.Equal(t, 2, smallestUnusedSerial(map[int]bool{1: true, 3: true}))
}

func TestNumberRoundTrip(t *testing.T) {
	used := map[int]bool{1: true, 2: true, 4: true}
	number := FormatDocumentNumber(ReceiptPrefix, 2026, smallestUnusedSerial(used))
	assert.Equal(t, "RCP/2026/0003", number)

	serial, ok := parseDocumentSerial(number, ReceiptPrefix, 2026)
	assert.True(t, ok)
	assert.Equal(t, 3, serial)
}
