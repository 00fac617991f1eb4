// ©Hayabusa Cloud Co., Ltd. 2026. All rights reserved.
// Use of this source code is governed by a MIT-style
// license that can be found in the LICENSE file.

package main

import (
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
)

func TestAppendSessionNewFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")

	session := Session{SessionTime: "2026-08-24T00:00:00Z"}
	if err := appendSession(path, session); err != nil {
		t.Fatalf("appendSession: %v", err)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read report: %v", err)
	}
	var sessions []Session
	if err := json.Unmarshal(data, &sessions); err != nil {
		t.Fatalf("report not valid JSON: %v", err)
	}
	if len(sessions) != 1 || sessions[0].SessionTime != session.SessionTime {
		t.Fatalf("want 1 session %q, got %+v", session.SessionTime, sessions)
	}
}

func TestAppendSessionAppends(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")

	if err := appendSession(path, Session{SessionTime: "first"}); err != nil {
		t.Fatalf("first appendSession: %v", err)
	}
	if err := appendSession(path, Session{SessionTime: "second"}); err != nil {
		t.Fatalf("second appendSession: %v", err)
	}

	data, _ := os.ReadFile(path)
	var sessions []Session
	if err := json.Unmarshal(data, &sessions); err != nil {
		t.Fatalf("report not valid JSON: %v", err)
	}
	if len(sessions) != 2 || sessions[0].SessionTime != "first" || sessions[1].SessionTime != "second" {
		t.Fatalf("want [first second], got %+v", sessions)
	}
}

func TestAppendSessionCorruptFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "report.json")
	if err := os.WriteFile(path, []byte("{not json"), 0644); err != nil {
		t.Fatalf("seed corrupt file: %v", err)
	}

	// A corrupt report must not poison the run: the session is still
	// written, starting a fresh report.
	session := Session{SessionTime: "fresh"}
	if err := appendSession(path, session); err != nil {
		t.Fatalf("appendSession over corrupt file: %v", err)
	}

	data, _ := os.ReadFile(path)
	var sessions []Session
	if err := json.Unmarshal(data, &sessions); err != nil {
		t.Fatalf("rewritten report not valid JSON: %v", err)
	}
	if len(sessions) != 1 || sessions[0].SessionTime != "fresh" {
		t.Fatalf("want 1 fresh session, got %+v", sessions)
	}
}
