package main

import (
	"strconv"
	"time"
)

func formatTime(t *time.Time) string {
	if t == nil || t.IsZero() {
		return "-"
	}
	return t.UTC().Format("2006-01-02 15:04:05")
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', -1, 64)
}

func valueOrDash(value string) string {
	if value == "" {
		return "-"
	}
	return value
}
