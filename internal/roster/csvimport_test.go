package roster

import (
	"errors"
	"strings"
	"testing"
)

func TestParseCSVValid(t *testing.T) {
	csv := strings.Join([]string{
		"rollNumber,firstName,lastName,parentPhone,address",
		"01,Asha,Rao,9999900001,\"12, Gandhi Street\"",
		"02,Kiran,Kumar,9999900002,",
	}, "\n")

	rows, err := ParseCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want 2", len(rows))
	}
	if rows[0].Name() != "Asha Rao" {
		t.Errorf("row 0 name = %q, want %q", rows[0].Name(), "Asha Rao")
	}
	if rows[0].Address != "12, Gandhi Street" {
		t.Errorf("quoted address mangled: %q", rows[0].Address)
	}
	if rows[1].Address != "" {
		t.Errorf("missing optional field should default to empty, got %q", rows[1].Address)
	}
}

func TestParseCSVHeaderOrderIndependent(t *testing.T) {
	csv := strings.Join([]string{
		"parentPhone,lastName,firstName,rollNumber,nickname",
		"9999900001,Rao,Asha,01,ash",
	}, "\n")

	rows, err := ParseCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if rows[0].RollNumber != "01" || rows[0].ParentPhone != "9999900001" {
		t.Errorf("column mapping wrong: %+v", rows[0])
	}
}

func TestParseCSVMissingHeaders(t *testing.T) {
	csv := "rollNumber,firstName\n01,Asha\n"

	_, err := ParseCSV(strings.NewReader(csv))
	var mh *MissingHeadersError
	if !errors.As(err, &mh) {
		t.Fatalf("error = %v, want MissingHeadersError", err)
	}
	want := []string{"lastName", "parentPhone"}
	if len(mh.Missing) != len(want) {
		t.Fatalf("missing = %v, want %v", mh.Missing, want)
	}
	for i := range want {
		if mh.Missing[i] != want[i] {
			t.Errorf("missing[%d] = %q, want %q", i, mh.Missing[i], want[i])
		}
	}
}

func TestParseCSVSkipsInvalidRows(t *testing.T) {
	csv := strings.Join([]string{
		"rollNumber,firstName,lastName,parentPhone",
		"01,Asha,Rao,9999900001",
		"02,,Kumar,9999900002",  // missing required first name
		"03,Meena",              // wrong shape
		"04,Ravi,Teja, ",        // phone blank after trimming
		"05,Lakshmi,Devi,9999900005",
	}, "\n")

	rows, err := ParseCSV(strings.NewReader(csv))
	if err != nil {
		t.Fatalf("ParseCSV: %v", err)
	}
	if len(rows) != 2 {
		t.Fatalf("rows = %d, want only the 2 valid rows", len(rows))
	}
	if rows[0].RollNumber != "01" || rows[1].RollNumber != "05" {
		t.Errorf("kept wrong rows: %+v", rows)
	}
}

func TestParseCSVWholesaleRejects(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want error
	}{
		{name: "empty file", in: "", want: ErrEmptyCSV},
		{name: "header only", in: "rollNumber,firstName,lastName,parentPhone\n", want: ErrEmptyCSV},
		{
			name: "all rows invalid",
			in:   "rollNumber,firstName,lastName,parentPhone\n,,,\n",
			want: ErrNoStudents,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := ParseCSV(strings.NewReader(tt.in)); !errors.Is(err, tt.want) {
				t.Errorf("ParseCSV error = %v, want %v", err, tt.want)
			}
		})
	}
}
