package lead_test

import (
	"encoding/json"
	"testing"
	"time"

	"leadtrack/internal/lead"
	tu "leadtrack/internal/testutil"
)

func TestParseDate(t *testing.T) {
	tests := []struct {
		in      string
		want    lead.Date
		wantErr bool
	}{
		{in: "2024-05-01", want: tu.Day(2024, 5, 1)},
		{in: " 2024-12-31 ", want: tu.Day(2024, 12, 31)},
		{in: "2024-05-01T23:30:00+05:30", want: tu.Day(2024, 5, 1)},
		{in: "5/1/2024", want: tu.Day(2024, 5, 1)},
		{in: "01/05/2024", want: tu.Day(2024, 1, 5)},
		{in: "05/01/24", want: tu.Day(2024, 5, 1)},
		{in: "13/01/2024", wantErr: true},
		{in: "", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.in, func(t *testing.T) {
			got, err := lead.ParseDate(tt.in)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseDate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if got != tt.want {
				t.Errorf("ParseDate() = %v, want %v", got, tt.want)
			}
		})
	}
}

func TestDayRange(t *testing.T) {
	ist := time.FixedZone("IST", 5*3600+1800)
	rng := lead.DayRange(tu.Day(2024, 5, 1), tu.Day(2024, 5, 1), ist)

	tests := []struct {
		name string
		at   time.Time
		want bool
	}{
		{name: "midnight", at: time.Date(2024, 5, 1, 0, 0, 0, 0, ist), want: true},
		{name: "last instant", at: time.Date(2024, 5, 1, 23, 59, 59, 999999999, ist), want: true},
		{name: "next day", at: time.Date(2024, 5, 2, 0, 0, 0, 0, ist), want: false},
		{name: "previous day", at: time.Date(2024, 4, 30, 23, 59, 59, 0, ist), want: false},
		{name: "zero time", at: time.Time{}, want: false},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := rng.Contains(tt.at); got != tt.want {
				t.Errorf("Contains(%v) = %v, want %v", tt.at, got, tt.want)
			}
		})
	}
}

func TestParseWindow(t *testing.T) {
	for _, days := range []int{30, 60, 90, 180, 365} {
		if w, err := lead.ParseWindow(days); err != nil || int(w) != days {
			t.Errorf("ParseWindow(%d) = %v, %v", days, w, err)
		}
	}
	if _, err := lead.ParseWindow(7); err == nil {
		t.Error("ParseWindow(7) expected error")
	}
}

func TestCallerRecord_UnmarshalLenient(t *testing.T) {
	doc := `{
		"name": "Asha",
		"phoneNumber": "+919876543210",
		"selectedColorLabel": "purple",
		"selectedItemLabel": "Pump",
		"remindDate": "not a date",
		"note": "",
		"dataSavedDate": 1714550400000,
		"callHistory": [
			{"timestamp": "2024-05-02T10:00:00Z", "duration": "45", "type": "incoming"},
			{"timestamp": "yesterday", "duration": 10, "type": "OUTGOING"},
			{"timestamp": "1714640400000", "duration": -3, "type": "WIFI_CALL"}
		],
		"count": 3
	}`

	var r lead.CallerRecord
	if err := json.Unmarshal([]byte(doc), &r); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if r.ColorLabel != lead.LabelRed {
		t.Errorf("ColorLabel = %v, want %v", r.ColorLabel, lead.LabelRed)
	}
	if !r.RemindDate.IsZero() {
		t.Errorf("RemindDate = %v, want zero", r.RemindDate)
	}
	if !r.DataSavedDate.Equal(time.UnixMilli(1714550400000)) {
		t.Errorf("DataSavedDate = %v", r.DataSavedDate)
	}
	if len(r.CallHistory) != 3 {
		t.Fatalf("CallHistory has %d events, want 3", len(r.CallHistory))
	}
	if ev := r.CallHistory[0]; ev.Type != lead.CallIncoming || ev.Duration != 45 {
		t.Errorf("CallHistory[0] = %+v", ev)
	}
	if !r.CallHistory[1].Timestamp.IsZero() {
		t.Errorf("CallHistory[1].Timestamp = %v, want zero", r.CallHistory[1].Timestamp)
	}
	if ev := r.CallHistory[2]; ev.Type != lead.CallUnknown || ev.Duration != 0 || ev.Type.Tracked() {
		t.Errorf("CallHistory[2] = %+v, want untracked unknown with no duration", ev)
	}

	legacy := []struct {
		remind string
		want   lead.Date
	}{
		{remind: "5/1/2024", want: tu.Day(2024, 5, 1)},
		{remind: "05/01/24", want: tu.Day(2024, 5, 1)},
		{remind: "12/31/2024", want: tu.Day(2024, 12, 31)},
	}
	for _, tt := range legacy {
		t.Run(tt.remind, func(t *testing.T) {
			doc := `{"name": "Asha", "phoneNumber": "+919876543210", "selectedItemLabel": "Pump", "remindDate": "` + tt.remind + `"}`
			var r lead.CallerRecord
			if err := json.Unmarshal([]byte(doc), &r); err != nil {
				t.Fatalf("Unmarshal() error = %v", err)
			}
			if r.RemindDate != tt.want {
				t.Errorf("RemindDate = %v, want %v", r.RemindDate, tt.want)
			}
			if due := lead.DueReminders([]lead.CallerRecord{r}, tt.want); len(due) != 1 {
				t.Errorf("DueReminders() returned %d records, want 1", len(due))
			}
		})
	}
}

func TestCallEvent_UnmarshalLegacyTimestamp(t *testing.T) {
	var ev lead.CallEvent
	if err := json.Unmarshal([]byte(`{"timestamp": "01-May-2024 10:00:00", "duration": 5, "type": "INCOMING"}`), &ev); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	want := time.Date(2024, 5, 1, 10, 0, 0, 0, time.Local)
	if !ev.Timestamp.Equal(want) {
		t.Errorf("Timestamp = %v, want %v", ev.Timestamp, want)
	}
}

func TestCallerRecord_MarshalRoundTrip(t *testing.T) {
	in := tu.NewRecord("Asha", "+919876543210", "Pump",
		tu.WithLabel(lead.LabelBlack),
		tu.WithRemindDate(tu.Day(2024, 6, 1)),
		tu.WithCalls(tu.Call(lead.CallMissed, tu.At(2024, 5, 2, 10, 0))))

	data, err := json.Marshal(in)
	if err != nil {
		t.Fatalf("Marshal() error = %v", err)
	}
	var out lead.CallerRecord
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("Unmarshal() error = %v", err)
	}
	if out.ColorLabel != in.ColorLabel || out.RemindDate != in.RemindDate || out.Product != in.Product {
		t.Errorf("round trip = %+v, want %+v", out, in)
	}
	if !out.DataSavedDate.Equal(in.DataSavedDate) || !out.CallHistory[0].Timestamp.Equal(in.CallHistory[0].Timestamp) {
		t.Errorf("round trip lost timestamps: %+v", out)
	}
}
