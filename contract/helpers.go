package contract

import (
	"encoding/json"
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"okinoko-faction_arena/sdk"
)

// ---------- JSON Conversions ----------

func toJSON(v any) (*string, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return nil, errors.Wrap(ErrCorruptState, err.Error())
	}
	s := string(b)
	return &s, nil
}

func fromJSON[T any](payload string) (T, error) {
	var v T
	if err := json.Unmarshal([]byte(payload), &v); err != nil {
		return v, errors.Wrap(ErrInvalidPayload, err.Error())
	}
	return v, nil
}

// ---------- Parsing Helpers ----------

// nextField pops the next '|' separated field off s.
func nextField(s *string) string {
	i := strings.IndexByte(*s, '|')
	if i < 0 {
		f := *s
		*s = ""
		return f
	}
	f := (*s)[:i]
	*s = (*s)[i+1:]
	return f
}

func parseU64(s, what string) (uint64, error) {
	v, err := strconv.ParseUint(s, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidPayload, "%s %q", what, s)
	}
	return v, nil
}

func parseI64(s, what string) (int64, error) {
	v, err := strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, errors.Wrapf(ErrInvalidPayload, "%s %q", what, s)
	}
	return v, nil
}

// MaxAddressLength bounds every address the arena stores. Binary records
// prefix strings with a 16 bit length.
const MaxAddressLength = 256

func checkAddress(addr sdk.Address, what string) error {
	if addr == "" {
		return errors.Wrapf(ErrInvalidPayload, "%s is mandatory", what)
	}
	if len(addr) > MaxAddressLength {
		return errors.Wrapf(ErrInvalidPayload, "%s longer than %d bytes", what, MaxAddressLength)
	}
	return nil
}

func parseAddress(s, what string) (sdk.Address, error) {
	if err := checkAddress(sdk.Address(s), what); err != nil {
		return "", err
	}
	return sdk.Address(s), nil
}

func requireEnd(rest string) error {
	if rest != "" {
		return errors.Wrap(ErrInvalidPayload, "too many arguments")
	}
	return nil
}

func strPtr(s string) *string { return &s }

func i64Ptr(v int64) *string { return strPtr(strconv.FormatInt(v, 10)) }
