package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"sort"
	"text/tabwriter"
	"time"
)

func main() {
	if len(os.Args) < 2 {
		printUsage()
		os.Exit(1)
	}

	command := os.Args[1]
	args := os.Args[2:]

	var err error
	switch command {
	case "auth":
		err = handleAuth(args)
	case "employee":
		err = handleEmployee(args)
	case "leave":
		err = handleLeave(args)
	case "request":
		err = handleRequest(args)
	case "attendance":
		err = handleAttendance(args)
	case "dashboard":
		err = showDashboard()
	case "help":
		printUsage()
	default:
		fmt.Fprintf(os.Stderr, "unknown command: %s\n", command)
		printUsage()
		os.Exit(1)
	}
	if err != nil {
		fmt.Fprintf(os.Stderr, "✗ %v\n", err)
		os.Exit(1)
	}
}

func handleAuth(args []string) error {
	if len(args) < 1 {
		fmt.Println("Usage: hrportal auth <login|logout|who>")
		return nil
	}

	switch args[0] {
	case "login":
		return login(args[1:])
	case "logout":
		return logout()
	case "who":
		return whoAmI()
	default:
		return fmt.Errorf("unknown auth command: %s", args[0])
	}
}

func handleEmployee(args []string) error {
	if len(args) < 1 || args[0] != "list" {
		fmt.Println("Usage: hrportal employee list")
		return nil
	}
	var employees []map[string]any
	if err := call(http.MethodGet, "/v1/employee/all", nil, &employees); err != nil {
		return err
	}
	return table([]string{"ID", "NAME", "EMAIL", "POSITION"}, employees, func(e map[string]any) []any {
		return []any{e["_id"], fmt.Sprintf("%v %v", e["firstname"], e["lastname"]), e["email"], e["position"]}
	})
}

func handleLeave(args []string) error {
	if len(args) < 1 {
		fmt.Println("Usage: hrportal leave <list|apply|review>")
		return nil
	}

	switch args[0] {
	case "list":
		path := "/v1/leave/all"
		if s, _ := loadSession(); s.Role == "employee" {
			path = "/v1/leave/my-leaves"
		}
		var leaves []map[string]any
		if err := call(http.MethodGet, path, nil, &leaves); err != nil {
			return err
		}
		return table([]string{"ID", "EMPLOYEE", "FROM", "TO", "STATUS"}, leaves, func(l map[string]any) []any {
			return []any{l["_id"], l["employee"], l["startdate"], l["enddate"], l["status"]}
		})
	case "apply":
		fs := flag.NewFlagSet("apply", flag.ExitOnError)
		title := fs.String("title", "", "leave title (optional)")
		reason := fs.String("reason", "", "reason")
		start := fs.String("start", "", "start date (YYYY-MM-DD)")
		end := fs.String("end", "", "end date (YYYY-MM-DD)")
		fs.Parse(args[1:])
		payload := map[string]string{"reason": *reason, "startdate": *start, "enddate": *end}
		if *title != "" {
			payload["title"] = *title
		}
		var leave map[string]any
		if err := call(http.MethodPost, "/v1/leave/create-leave", payload, &leave); err != nil {
			return err
		}
		fmt.Printf("✓ Leave applied: %v\n", leave["_id"])
		return nil
	case "review":
		fs := flag.NewFlagSet("review", flag.ExitOnError)
		id := fs.String("id", "", "leave id")
		status := fs.String("status", "Approved", "Approved or Rejected")
		fs.Parse(args[1:])
		if *id == "" {
			return errors.New("-id is required")
		}
		if err := call(http.MethodPatch, "/v1/leave/HR-update-leave/"+*id, map[string]string{"status": *status}, nil); err != nil {
			return err
		}
		fmt.Printf("✓ Leave %s %s\n", *id, *status)
		return nil
	default:
		return fmt.Errorf("unknown leave command: %s", args[0])
	}
}

func handleRequest(args []string) error {
	if len(args) < 1 {
		fmt.Println("Usage: hrportal request <list|raise|close>")
		return nil
	}

	switch args[0] {
	case "list":
		var requests []map[string]any
		if err := call(http.MethodGet, "/v1/generate-request/all", nil, &requests); err != nil {
			return err
		}
		return table([]string{"ID", "TITLE", "PRIORITY", "STATUS"}, requests, func(r map[string]any) []any {
			return []any{r["_id"], r["requesttitle"], r["priority"], r["status"]}
		})
	case "raise":
		fs := flag.NewFlagSet("raise", flag.ExitOnError)
		title := fs.String("title", "", "request title")
		content := fs.String("content", "", "request content")
		priority := fs.String("priority", "Medium", "Low, Medium, High or Urgent")
		fs.Parse(args[1:])
		var out map[string]any
		err := call(http.MethodPost, "/v1/generate-request/create-request", map[string]string{
			"requesttitle": *title, "requestconent": *content, "priority": *priority,
		}, &out)
		if err != nil {
			return err
		}
		fmt.Printf("✓ Request raised: %v\n", out["_id"])
		return nil
	case "close":
		fs := flag.NewFlagSet("close", flag.ExitOnError)
		id := fs.String("id", "", "request id")
		comments := fs.String("comments", "", "HR comments")
		fs.Parse(args[1:])
		if *id == "" {
			return errors.New("-id is required")
		}
		if err := call(http.MethodPatch, "/v1/generate-request/close-request", map[string]string{
			"requestID": *id, "hrComments": *comments,
		}, nil); err != nil {
			return err
		}
		fmt.Printf("✓ Request %s closed\n", *id)
		return nil
	default:
		return fmt.Errorf("unknown request command: %s", args[0])
	}
}

func handleAttendance(args []string) error {
	if len(args) < 1 {
		fmt.Println("Usage: hrportal attendance <clock-in|clock-out|status>")
		return nil
	}

	switch args[0] {
	case "clock-in", "clock-out":
		var record map[string]any
		if err := call(http.MethodPost, "/v1/attendance/employee/"+args[0], nil, &record); err != nil {
			return err
		}
		fmt.Printf("✓ %s recorded at %s\n", args[0], time.Now().Format(time.Kitchen))
		if hours, ok := record["workHours"]; ok && args[0] == "clock-out" {
			fmt.Printf("  worked %v hours\n", hours)
		}
		return nil
	case "status":
		var status map[string]any
		if err := call(http.MethodGet, "/v1/attendance/employee/my-status", nil, &status); err != nil {
			return err
		}
		fmt.Printf("Clocked in: %v (last event: %v)\n", status["isClockedIn"], status["lastEvent"])
		return nil
	default:
		return fmt.Errorf("unknown attendance command: %s", args[0])
	}
}

func showDashboard() error {
	var dash struct {
		Counts map[string]int `json:"counts"`
	}
	if err := call(http.MethodGet, "/v1/dashboard/HR-dashboard", nil, &dash); err != nil {
		return err
	}
	keys := make([]string, 0, len(dash.Counts))
	for k := range dash.Counts {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for _, k := range keys {
		fmt.Fprintf(w, "%s\t%d\n", k, dash.Counts[k])
	}
	return w.Flush()
}

// Auth commands
func login(args []string) error {
	fs := flag.NewFlagSet("login", flag.ExitOnError)
	role := fs.String("role", "HR", "HR or employee")
	email := fs.String("email", "", "email")
	password := fs.String("password", "", "password")
	fs.Parse(args)

	if *email == "" || *password == "" {
		fs.PrintDefaults()
		return errors.New("email and password are required")
	}
	if *role != "HR" && *role != "employee" {
		return fmt.Errorf("role must be HR or employee, got %q", *role)
	}

	var out struct {
		Token string `json:"token"`
	}
	payload := map[string]string{"email": *email, "password": *password}
	if err := call(http.MethodPost, "/auth/"+*role+"/login", payload, &out); err != nil {
		return err
	}
	if err := saveSession(session{Role: *role, Email: *email, Token: out.Token}); err != nil {
		return fmt.Errorf("save session: %w", err)
	}
	fmt.Printf("✓ Logged in as %s (%s)\n", *email, *role)
	return nil
}

func logout() error {
	if s, err := loadSession(); err == nil {
		_ = call(http.MethodPost, "/auth/"+s.Role+"/logout", nil, nil)
	}
	if err := os.Remove(sessionFile()); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	fmt.Println("✓ Logged out")
	return nil
}

func whoAmI() error {
	s, err := loadSession()
	if err != nil {
		fmt.Println("Not logged in")
		return nil
	}
	var me map[string]any
	if err := call(http.MethodGet, "/auth/"+s.Role+"/check-login", nil, &me); err != nil {
		return err
	}
	fmt.Printf("✓ %v %v <%v> role=%v organization=%v\n", me["firstname"], me["lastname"], me["email"], me["role"], me["organizationID"])
	return nil
}

// Helper functions
type envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message"`
	Data    json.RawMessage `json:"data"`
}

// call sends body as JSON with the stored bearer token and decodes the
// envelope's data into out.
func call(method, path string, body, out any) error {
	var reader io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return err
		}
		reader = bytes.NewReader(data)
	}
	req, err := http.NewRequest(method, getAPIURL()+path, reader)
	if err != nil {
		return err
	}
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if s, err := loadSession(); err == nil && s.Token != "" {
		req.Header.Set("Authorization", "Bearer "+s.Token)
	}

	client := &http.Client{Timeout: 15 * time.Second}
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	var env envelope
	if err := json.NewDecoder(resp.Body).Decode(&env); err != nil {
		return fmt.Errorf("%s %s: unexpected response (%d)", method, path, resp.StatusCode)
	}
	if resp.StatusCode >= 400 || !env.Success {
		return fmt.Errorf("%s (%d)", env.Message, resp.StatusCode)
	}
	if out == nil || len(env.Data) == 0 {
		return nil
	}
	return json.Unmarshal(env.Data, out)
}

func table(headers []string, rows []map[string]any, cols func(map[string]any) []any) error {
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	for i, h := range headers {
		if i > 0 {
			fmt.Fprint(w, "\t")
		}
		fmt.Fprint(w, h)
	}
	fmt.Fprintln(w)
	for _, row := range rows {
		for i, v := range cols(row) {
			if i > 0 {
				fmt.Fprint(w, "\t")
			}
			fmt.Fprint(w, v)
		}
		fmt.Fprintln(w)
	}
	return w.Flush()
}

func getAPIURL() string {
	if url := os.Getenv("HRPORTAL_API"); url != "" {
		return url
	}
	return "http://localhost:8080/api"
}

type session struct {
	Role  string `json:"role"`
	Email string `json:"email"`
	Token string `json:"token"`
}

func sessionFile() string {
	home, _ := os.UserHomeDir()
	return filepath.Join(home, ".hrportal", "session.json")
}

func saveSession(s session) error {
	if err := os.MkdirAll(filepath.Dir(sessionFile()), 0700); err != nil {
		return err
	}
	data, err := json.Marshal(s)
	if err != nil {
		return err
	}
	return os.WriteFile(sessionFile(), data, 0600)
}

func loadSession() (session, error) {
	var s session
	data, err := os.ReadFile(sessionFile())
	if err != nil {
		return s, err
	}
	err = json.Unmarshal(data, &s)
	return s, err
}

func printUsage() {
	fmt.Print(`HR Portal CLI

Usage:
  hrportal <command> [options]

Commands:
  auth        Session management (login, logout, who)
  employee    Employee directory (list) - HR only
  leave       Leave applications (list, apply, review)
  request     Employee requests (list, raise, close)
  attendance  Time tracking (clock-in, clock-out, status) - employees
  dashboard   Organization counters - HR only
  help        Show this help message

Environment Variables:
  HRPORTAL_API    API endpoint (default: http://localhost:8080/api)

Examples:
  hrportal auth login -role HR -email hr@acme.test -password Password123
  hrportal employee list
  hrportal leave apply -reason "family trip" -start 2026-04-01 -end 2026-04-03
  hrportal attendance clock-in
`)
}
