// Command seed populates a running API instance with a demo roster, a few
// absence periods and a month of open weekend slots, then runs a distribution
// preview. Useful for local smoke testing against a fresh database.
package main

import (
	"bytes"
	"encoding/json"
	"flag"
	"fmt"
	"io"
	"log"
	"net/http"
	"time"
)

type seedEmployee struct {
	Name string `json:"name"`
}

type seedAbsence struct {
	EmpID     string `json:"emp_id"`
	Type      string `json:"type"`
	StartDate string `json:"start_date"`
	EndDate   string `json:"end_date"`
}

type seedShift struct {
	Date string `json:"date"`
	Type string `json:"type"`
}

type envelope struct {
	Data json.RawMessage `json:"data"`
}

func main() {
	var (
		base    string
		start   string
		end     string
		timeout time.Duration
	)

	flag.StringVar(&base, "base", "http://localhost:8080/api/v1", "API base URL")
	flag.StringVar(&start, "start", "2026-10-01", "Planning period start (YYYY-MM-DD)")
	flag.StringVar(&end, "end", "2026-10-31", "Planning period end (YYYY-MM-DD)")
	flag.DurationVar(&timeout, "timeout", 5*time.Second, "HTTP client timeout")
	flag.Parse()

	client := &http.Client{Timeout: timeout}

	names := []string{"Anna", "Bent", "Clara", "Dorte"}
	ids := make([]string, 0, len(names))
	for _, name := range names {
		var created struct {
			ID string `json:"id"`
		}
		if err := post(client, base+"/employees", seedEmployee{Name: name}, &created); err != nil {
			log.Fatalf("create employee %s: %v", name, err)
		}
		ids = append(ids, created.ID)
		fmt.Printf("employee %-8s %s\n", name, created.ID)
	}

	absences := []seedAbsence{
		{EmpID: ids[0], Type: "vacation", StartDate: "2026-10-05", EndDate: "2026-10-11"},
		{EmpID: ids[1], Type: "shift_free", StartDate: "2026-10-10", EndDate: "2026-10-10"},
		{EmpID: ids[2], Type: "vacation", StartDate: "2026-10-19", EndDate: "2026-10-25"},
	}
	for _, a := range absences {
		if err := post(client, base+"/absences", a, nil); err != nil {
			log.Fatalf("create absence: %v", err)
		}
	}
	fmt.Printf("registered %d absences\n", len(absences))

	// A couple of explicit open slots; the planner finds the rest of the
	// weekends on its own.
	for _, date := range []string{"2026-10-03", "2026-10-04"} {
		if err := post(client, base+"/shifts", seedShift{Date: date, Type: "weekend"}, nil); err != nil {
			log.Fatalf("create open slot: %v", err)
		}
	}

	var preview struct {
		Proposals []struct {
			Date  string `json:"date"`
			EmpID string `json:"emp_id"`
		} `json:"proposals"`
	}
	payload := map[string]string{"start": start, "end": end}
	if err := post(client, base+"/planning/distribute", payload, &preview); err != nil {
		log.Fatalf("distribution preview: %v", err)
	}

	fmt.Printf("planner proposes %d assignments for %s..%s\n", len(preview.Proposals), start, end)
	for _, p := range preview.Proposals {
		fmt.Printf("  %s -> %s\n", p.Date, p.EmpID)
	}
}

func post(client *http.Client, url string, payload interface{}, out interface{}) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}
	resp, err := client.Post(url, "application/json", bytes.NewReader(body))
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode >= 300 {
		return fmt.Errorf("%s returned %d: %s", url, resp.StatusCode, raw)
	}
	if out == nil {
		return nil
	}
	var env envelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return err
	}
	return json.Unmarshal(env.Data, out)
}
