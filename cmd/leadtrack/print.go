package main

import (
	"fmt"

	"leadtrack/internal/lead"

	"github.com/fatih/color"
)

var (
	red   = color.New(color.FgRed).SprintFunc()
	green = color.New(color.FgGreen).SprintFunc()
	black = color.New(color.FgHiBlack).SprintFunc()
	bold  = color.New(color.Bold).SprintFunc()
)

func labelString(l lead.ColorLabel) string {
	s := fmt.Sprintf("%-5s", l)
	switch l {
	case lead.LabelRed:
		return red(s)
	case lead.LabelGreen:
		return green(s)
	default:
		return black(s)
	}
}

func printRecord(r *lead.CallerRecord) {
	fmt.Printf("%s  %-14s  %-20s  %-16s  calls:%-3d  remind:%-10s  %s\n",
		labelString(r.ColorLabel),
		r.PhoneNumber,
		r.Name,
		r.Product,
		r.Count,
		orDefault(r.RemindDate.String(), "-"),
		r.Note,
	)
}

func printDetail(rows []lead.DetailRow) {
	if len(rows) == 0 {
		fmt.Println("No callers.")
		return
	}
	for _, r := range rows {
		calls := fmt.Sprintf("calls:%d", r.IncomingCallCount)
		if r.SavedOnly {
			calls = "saved " + r.DataSavedDate.Format("2006-01-02")
		}
		fmt.Printf("%s  %-14s  %-20s  %-16s  %s\n", labelString(r.ColorLabel), r.PhoneNumber, r.Name, r.Product, calls)
	}
}
