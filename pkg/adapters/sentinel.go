package adapters

import (
	"encoding/json"

	"github.com/aws/aws-sdk-go-v2/aws"
)

const (
	// NotAvailable replaces optional text fields the provider did not return.
	NotAvailable = "N/A"
	UnknownState = "unknown"
)

func stringOr(v *string, fallback string) string {
	if s := aws.ToString(v); s != "" {
		return s
	}
	return fallback
}

func copyPtr[T any](v *T) *T {
	if v == nil {
		return nil
	}
	c := *v
	return &c
}

// encodeTags serializes tags as a JSON object. Keys come out sorted, so the
// same tag set always produces the same text regardless of provider order.
func encodeTags(tags map[string]string) string {
	if len(tags) == 0 {
		return "{}"
	}
	b, err := json.Marshal(tags)
	if err != nil {
		return "{}"
	}
	return string(b)
}
