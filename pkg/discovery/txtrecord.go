package discovery

import (
	"fmt"
	"strconv"
	"strings"
)

// TXTRecordMap is a map of TXT record key-value pairs.
type TXTRecordMap map[string]string

// EncodeGatewayTXT creates TXT records for a gateway announcement.
func EncodeGatewayTXT(info *GatewayInfo) TXTRecordMap {
	txt := make(TXTRecordMap)

	txt[TXTKeyCallsign] = info.Callsign

	if info.Version != "" {
		txt[TXTKeyVersion] = info.Version
	}
	if info.Frequency > 0 {
		txt[TXTKeyFrequency] = strconv.FormatInt(info.Frequency, 10)
	}

	return txt
}

// DecodeGatewayTXT parses TXT records from a gateway announcement.
func DecodeGatewayTXT(txt TXTRecordMap) (*GatewayInfo, error) {
	info := &GatewayInfo{}

	call, ok := txt[TXTKeyCallsign]
	if !ok || call == "" {
		return nil, fmt.Errorf("%w: %s", ErrMissingRequired, TXTKeyCallsign)
	}
	info.Callsign = call

	info.Version = txt[TXTKeyVersion]

	if freqStr, ok := txt[TXTKeyFrequency]; ok {
		freq, err := strconv.ParseInt(freqStr, 10, 64)
		if err != nil || freq <= 0 {
			return nil, fmt.Errorf("%w: %s=%q", ErrInvalidTXT, TXTKeyFrequency, freqStr)
		}
		info.Frequency = freq
	}

	return info, nil
}

// TXTRecordsToStrings converts a TXT record map to "key=value" strings
// as zeroconf expects them.
func TXTRecordsToStrings(txt TXTRecordMap) []string {
	out := make([]string, 0, len(txt))
	for k, v := range txt {
		out = append(out, k+"="+v)
	}
	return out
}

// StringsToTXTRecords parses "key=value" strings into a TXT record map.
// Entries without '=' are stored with an empty value.
func StringsToTXTRecords(records []string) TXTRecordMap {
	txt := make(TXTRecordMap, len(records))
	for _, r := range records {
		k, v, found := strings.Cut(r, "=")
		if !found {
			txt[r] = ""
			continue
		}
		txt[k] = v
	}
	return txt
}
