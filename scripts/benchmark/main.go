package main

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/spf13/pflag"
	"github.com/use-agent/productfinder/models"
)

// CLI flags
var (
	apiURL = pflag.String("api-url", "http://127.0.0.1:8080", "Search API base URL")
	runs   = pflag.Int("runs", 3, "Number of runs per product for averaging")
	output = pflag.String("output", "benchmark-results.json", "JSON output file path")
)

// Products covering common result page layouts.
var testProducts = []string{
	"desk lamp",
	"office chair",
	"usb-c cable",
	"running shoes",
	"paperback novel",
}

type runResult struct {
	Run       int    `json:"run"`
	LatencyMs int64  `json:"latency_ms"`
	Found     bool   `json:"found"`
	URL       string `json:"url,omitempty"`
	Message   string `json:"message,omitempty"`
	Error     string `json:"error,omitempty"`
}

type productResult struct {
	Query        string      `json:"query"`
	Runs         []runResult `json:"runs"`
	AvgLatencyMs float64     `json:"avg_latency_ms"`
	HitRate      float64     `json:"hit_rate"`
}

type benchmarkReport struct {
	Timestamp      string          `json:"timestamp"`
	APIURL         string          `json:"api_url"`
	RunsPerProduct int             `json:"runs_per_product"`
	Results        []productResult `json:"results"`
}

func main() {
	pflag.Parse()

	fmt.Println("=== Product Search Benchmark ===")
	fmt.Printf("API URL:   %s\n", *apiURL)
	fmt.Printf("Runs:      %d\n", *runs)
	fmt.Printf("Output:    %s\n", *output)
	fmt.Println()

	if err := checkAPI(*apiURL); err != nil {
		fmt.Fprintf(os.Stderr, "Error: cannot reach API at %s: %v\n", *apiURL, err)
		fmt.Fprintf(os.Stderr, "Start amazon-search with PRODUCTFINDER_HTTP_ENABLED=true\n")
		os.Exit(1)
	}

	report := benchmarkReport{
		Timestamp:      time.Now().UTC().Format(time.RFC3339),
		APIURL:         *apiURL,
		RunsPerProduct: *runs,
	}

	client := &http.Client{Timeout: 30 * time.Second}
	for _, q := range testProducts {
		fmt.Printf("Searching %q ...\n", q)
		pr := productResult{Query: q}

		for i := 1; i <= *runs; i++ {
			fmt.Printf("  Run %d/%d ... ", i, *runs)
			rr := benchmarkQuery(client, q, i)
			switch {
			case rr.Error != "":
				fmt.Printf("FAILED: %s\n", rr.Error)
			case rr.Found:
				fmt.Printf("OK  %dms\n", rr.LatencyMs)
			default:
				fmt.Printf("NOT FOUND  %dms\n", rr.LatencyMs)
			}
			pr.Runs = append(pr.Runs, rr)
		}

		pr.AvgLatencyMs, pr.HitRate = summarize(pr.Runs)
		report.Results = append(report.Results, pr)
		fmt.Println()
	}

	printTable(report.Results)

	if err := writeJSON(*output, report); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing JSON output: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("\nDetailed results written to %s\n", *output)
}

func checkAPI(baseURL string) error {
	client := &http.Client{Timeout: 10 * time.Second}
	resp, err := client.Get(baseURL + "/api/v1/health")
	if err != nil {
		return err
	}
	resp.Body.Close()
	return nil
}

func benchmarkQuery(client *http.Client, query string, run int) runResult {
	rr := runResult{Run: run}

	body, err := json.Marshal(models.SearchRequest{Query: query})
	if err != nil {
		rr.Error = fmt.Sprintf("marshal error: %v", err)
		return rr
	}

	start := time.Now()
	resp, err := client.Post(*apiURL+"/api/v1/search", "application/json", bytes.NewReader(body))
	if err != nil {
		rr.Error = fmt.Sprintf("request failed: %v", err)
		return rr
	}
	defer resp.Body.Close()
	rr.LatencyMs = time.Since(start).Milliseconds()

	if resp.StatusCode != http.StatusOK {
		rr.Error = fmt.Sprintf("HTTP %d", resp.StatusCode)
		return rr
	}

	var sr models.SearchResult
	if err := json.NewDecoder(resp.Body).Decode(&sr); err != nil {
		rr.Error = fmt.Sprintf("decode error: %v", err)
		return rr
	}

	rr.Found = sr.Found()
	rr.URL = sr.ProductURL
	rr.Message = sr.Message
	return rr
}

func summarize(runs []runResult) (avgLatencyMs, hitRate float64) {
	var answered, found int
	for _, r := range runs {
		if r.Error != "" {
			continue
		}
		answered++
		avgLatencyMs += float64(r.LatencyMs)
		if r.Found {
			found++
		}
	}
	if answered == 0 {
		return 0, 0
	}
	return avgLatencyMs / float64(answered), float64(found) / float64(len(runs)) * 100
}

func printTable(results []productResult) {
	fmt.Println(strings.Repeat("─", 60))
	w := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintf(w, "Query\tAvg Latency\tHit Rate\n")
	fmt.Fprintf(w, "─────\t───────────\t────────\n")

	for _, r := range results {
		fmt.Fprintf(w, "%s\t%dms\t%.0f%%\n", r.Query, int64(r.AvgLatencyMs), r.HitRate)
	}

	w.Flush()
	fmt.Println(strings.Repeat("─", 60))
}

func writeJSON(path string, report benchmarkReport) error {
	data, err := json.MarshalIndent(report, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, data, 0644)
}
