package entity

import (
	"database/sql/driver"
	"errors"
	"fmt"
	"strings"
	"time"
)

// Kind identifies an entity type. The value doubles as table name and URL segment.
type Kind string

const (
	KindUser             Kind = "users"
	KindDoctor           Kind = "doctors"
	KindPatient          Kind = "patients"
	KindMedicine         Kind = "medicines"
	KindAppointment      Kind = "appointments"
	KindPrescription     Kind = "prescriptions"
	KindBilling          Kind = "billing"
	KindHospitalResource Kind = "hospital_resources"
	KindLabTest          Kind = "lab_tests"
	KindFeedback         Kind = "feedback"
)

var ErrUnknownKind = errors.New("unknown entity kind")

// kinds is the declaration order. Cascade traversal and reports follow it.
var kinds = []Kind{
	KindUser,
	KindDoctor,
	KindPatient,
	KindMedicine,
	KindAppointment,
	KindPrescription,
	KindBilling,
	KindHospitalResource,
	KindLabTest,
	KindFeedback,
}

// Kinds returns every entity kind in declaration order.
func Kinds() []Kind {
	out := make([]Kind, len(kinds))
	copy(out, kinds)
	return out
}

// ParseKind maps a table name such as "lab_tests" to its Kind.
func ParseKind(s string) (Kind, error) {
	s = strings.ToLower(strings.TrimSpace(s))
	for _, k := range kinds {
		if string(k) == s {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownKind, s)
}

// Record is implemented by every stored entity.
type Record interface {
	Kind() Kind
	GetID() int64
	SetID(id int64)
	Clone() Record
	TableName() string
}

// Defaulter is implemented by records whose columns carry SQL defaults.
type Defaulter interface {
	ApplyDefaults(now time.Time)
}

// New returns an empty record of the given kind.
func New(kind Kind) (Record, error) {
	switch kind {
	case KindUser:
		return &User{}, nil
	case KindDoctor:
		return &Doctor{}, nil
	case KindPatient:
		return &Patient{}, nil
	case KindMedicine:
		return &Medicine{}, nil
	case KindAppointment:
		return &Appointment{}, nil
	case KindPrescription:
		return &Prescription{}, nil
	case KindBilling:
		return &Billing{}, nil
	case KindHospitalResource:
		return &HospitalResource{}, nil
	case KindLabTest:
		return &LabTest{}, nil
	case KindFeedback:
		return &Feedback{}, nil
	}
	return nil, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
}

const DateLayout = "2006-01-02"

// Date is a calendar date stored as SQL DATE and serialised as YYYY-MM-DD.
type Date struct {
	time.Time
}

// NewDate truncates t to its calendar day in UTC.
func NewDate(year int, month time.Month, day int) Date {
	return Date{Time: time.Date(year, month, day, 0, 0, 0, 0, time.UTC)}
}

// ParseDate parses a YYYY-MM-DD string.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return Date{}, err
	}
	return Date{Time: t}, nil
}

func (d Date) String() string {
	if d.IsZero() {
		return ""
	}
	return d.Format(DateLayout)
}

func (d Date) MarshalJSON() ([]byte, error) {
	if d.IsZero() {
		return []byte("null"), nil
	}
	return []byte(`"` + d.Format(DateLayout) + `"`), nil
}

func (d *Date) UnmarshalJSON(data []byte) error {
	s := strings.Trim(string(data), `"`)
	if s == "" || s == "null" {
		*d = Date{}
		return nil
	}
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		// full timestamps are accepted and truncated
		t, err = time.Parse(time.RFC3339, s)
		if err != nil {
			return fmt.Errorf("invalid date %q, use YYYY-MM-DD", s)
		}
		t = time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
	}
	*d = Date{Time: t}
	return nil
}

// Value returns the date value, implement driver.Valuer interface
func (d Date) Value() (driver.Value, error) {
	if d.IsZero() {
		return nil, nil
	}
	return d.Format(DateLayout), nil
}

// Scan scan value into Date, implements sql.Scanner interface
func (d *Date) Scan(value interface{}) error {
	switch v := value.(type) {
	case nil:
		*d = Date{}
	case time.Time:
		*d = Date{Time: time.Date(v.Year(), v.Month(), v.Day(), 0, 0, 0, 0, time.UTC)}
	case []byte:
		return d.scanString(string(v))
	case string:
		return d.scanString(v)
	default:
		return errors.New(fmt.Sprint("Failed to scan DATE value:", value))
	}
	return nil
}

func (d *Date) scanString(s string) error {
	if len(s) > len(DateLayout) {
		s = s[:len(DateLayout)]
	}
	parsed, err := ParseDate(s)
	if err != nil {
		return err
	}
	*d = parsed
	return nil
}

func cloneID(id *int64) *int64 {
	if id == nil {
		return nil
	}
	v := *id
	return &v
}

func cloneDate(d *Date) *Date {
	if d == nil {
		return nil
	}
	v := *d
	return &v
}
