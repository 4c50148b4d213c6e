package pix

import (
	"fmt"
	"strings"

	"github.com/shopspring/decimal"
)

// EMV MPM tags used by static PIX payloads.
// https://www.bcb.gov.br/content/estabilidadefinanceira/spb_docs/ManualBRCode.pdf.
const (
	tagPayloadFormat   = "00"
	tagInitiation      = "01"
	tagMerchantAccount = "26"
	tagCategoryCode    = "52"
	tagCurrency        = "53"
	tagAmount          = "54"
	tagCountry         = "58"
	tagMerchantName    = "59"
	tagMerchantCity    = "60"
	tagAdditionalData  = "62"
	tagCRC             = "63"

	subTagGUI         = "00"
	subTagKey         = "01"
	subTagDescription = "02"
	subTagTxID        = "05"

	pixGUI = "BR.GOV.BCB.PIX"

	payloadFormatValue = "01"
	initiationStatic   = "12" // static, reusable code

	maxNameLen  = 25
	maxCityLen  = 15
	maxDescLen  = 25
	maxTxIDLen  = 25
	maxFieldLen = 99
)

// MerchantProfile is the static side of every charge: who receives the money
// and how the receiver is displayed. Immutable once constructed.
type MerchantProfile struct {
	PixKey           string
	MerchantName     string
	MerchantCity     string
	MerchantCategory string
	CurrencyCode     string
	CountryCode      string
}

// Charge is the per-checkout side of the payload. A zero Amount marks an
// open-amount code and is omitted from the encoding entirely.
type Charge struct {
	Amount      decimal.Decimal
	Description string
	OrderID     string
}

// Encode builds the full "copia e cola" TLV string, trailing CRC included.
// Display fields are normalized and truncated before length-prefixing, so
// the only reachable failure is a PIX key long enough to overflow the
// 2-digit length of the merchant account field.
func Encode(profile MerchantProfile, charge Charge) (string, error) {
	if profile.PixKey == "" {
		return "", fmt.Errorf("encode pix: empty pix key")
	}

	account := field(subTagGUI, pixGUI) + field(subTagKey, profile.PixKey)
	if desc := truncate(NormalizeText(charge.Description), maxDescLen); desc != "" {
		account += field(subTagDescription, desc)
	}
	if len(profile.PixKey) > maxFieldLen || len(account) > maxFieldLen {
		return "", fmt.Errorf("encode pix: merchant account info is %d bytes, limit is %d", len(account), maxFieldLen)
	}

	var b strings.Builder
	b.WriteString(field(tagPayloadFormat, payloadFormatValue))
	b.WriteString(field(tagInitiation, initiationStatic))
	b.WriteString(field(tagMerchantAccount, account))
	b.WriteString(field(tagCategoryCode, profile.MerchantCategory))
	b.WriteString(field(tagCurrency, profile.CurrencyCode))
	if charge.Amount.IsPositive() {
		b.WriteString(field(tagAmount, charge.Amount.StringFixed(2)))
	}
	b.WriteString(field(tagCountry, profile.CountryCode))
	b.WriteString(field(tagMerchantName, truncate(NormalizeText(profile.MerchantName), maxNameLen)))
	b.WriteString(field(tagMerchantCity, truncate(NormalizeText(profile.MerchantCity), maxCityLen)))
	if txid := truncate(NormalizeText(charge.OrderID), maxTxIDLen); txid != "" {
		b.WriteString(field(tagAdditionalData, field(subTagTxID, txid)))
	}

	b.WriteString(tagCRC + "04")
	payload := b.String()
	return payload + Checksum(payload), nil
}

func field(tag, value string) string {
	return tag + FormatLength(len(value)) + value
}
