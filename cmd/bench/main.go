package main

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"os"
	"sort"
	"strings"
	"time"

	"github.com/bytedance/sonic"
	"github.com/kdduha/kolam-knowledge/internal/corpus"
	"github.com/spf13/cobra"
)

var (
	backendEndpoint string
	corpusPath      string
	rounds          int

	extraQueries = []string{
		"tell me about rangoli",
		"how is sikku kolam drawn",
		"pongal festival patterns",
	}
)

var rootCmd = &cobra.Command{
	Use:   "bench",
	Short: "Measure knowledge query latency against a running gateway",
	RunE: func(cmd *cobra.Command, args []string) error {
		corp, err := corpus.Load(corpusPath)
		if err != nil {
			return err
		}

		queries := append([]string{}, extraQueries...)
		for _, r := range corp.Records() {
			queries = append(queries, r.Question)
		}

		var results []BenchResult
		for i := 0; i < rounds; i++ {
			for _, q := range queries {
				res := benchmarkQuery(cmd.Context(), q)
				if res.Err != nil {
					log.Println("ERR:", res.Err)
				} else {
					log.Printf("OK %q %s %v", res.Query, res.Phase, res.Duration)
				}
				results = append(results, res)
			}
		}

		printMarkdown(results)
		return nil
	},
}

func init() {
	rootCmd.Flags().StringVar(&backendEndpoint, "endpoint", "http://localhost:8080/knowledge", "gateway one-shot query endpoint")
	rootCmd.Flags().StringVar(&corpusPath, "corpus", "", "corpus file with benchmark questions (bundled corpus when empty)")
	rootCmd.Flags().IntVar(&rounds, "rounds", 1, "number of passes over the question set")
}

func main() {
	if err := rootCmd.ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func benchmarkQuery(ctx context.Context, query string) BenchResult {
	start := time.Now()

	view, err := send(ctx, KnowledgeRequest{Query: query, GenerateImage: true})
	res := BenchResult{
		Query:    query,
		Duration: time.Since(start),
		Err:      err,
	}
	if err != nil {
		return res
	}

	res.Phase = view.Phase
	if view.Response != nil {
		res.Size = int64(len(view.Response.Explanation) + len(view.Response.ImageBase64))
	}
	return res
}

func send(ctx context.Context, req KnowledgeRequest) (*View, error) {
	body, err := sonic.Marshal(req)
	if err != nil {
		return nil, fmt.Errorf("marshal req: %w", err)
	}

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodPost, backendEndpoint, bytes.NewReader(body))
	if err != nil {
		return nil, err
	}
	httpReq.Header.Set("Content-Type", "application/json")

	resp, err := http.DefaultClient.Do(httpReq)
	if err != nil {
		return nil, err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		b, _ := io.ReadAll(resp.Body)
		return nil, fmt.Errorf("bad status %d: %s",
			resp.StatusCode,
			strings.TrimSpace(string(b)),
		)
	}

	var v View
	if err := sonic.ConfigDefault.NewDecoder(resp.Body).Decode(&v); err != nil {
		return nil, err
	}
	return &v, nil
}

func aggregate(results []BenchResult) map[string]Agg {
	m := map[string]Agg{}
	for _, r := range results {
		if r.Err != nil {
			continue
		}
		a := m[r.Phase]
		a.Count++
		a.TotalBytes += r.Size
		a.Total += r.Duration
		m[r.Phase] = a
	}
	return m
}

func printMarkdown(results []BenchResult) {
	fmt.Println("\n## Benchmark Results")
	fmt.Println()
	fmt.Println("| Phase | Requests | Avg Time | Total Time | Avg Answer Size |")
	fmt.Println("|-------|----------|----------|------------|-----------------|")

	agg := aggregate(results)
	phases := make([]string, 0, len(agg))
	for phase := range agg {
		phases = append(phases, phase)
	}
	sort.Strings(phases)

	var (
		totalCount    int
		totalDuration time.Duration
		totalBytes    int64
	)

	for _, phase := range phases {
		a := agg[phase]
		avg := a.Total / time.Duration(a.Count)
		avgSize := a.TotalBytes / int64(a.Count)
		fmt.Printf("| %s | %d | %v | %v | %s |\n",
			phase,
			a.Count,
			avg.Round(time.Millisecond),
			a.Total.Round(time.Millisecond),
			humanBytes(avgSize),
		)
		totalCount += a.Count
		totalDuration += a.Total
		totalBytes += a.TotalBytes
	}

	if totalCount > 0 {
		mean := totalDuration / time.Duration(totalCount)
		avgSize := totalBytes / int64(totalCount)
		fmt.Printf("| **ALL** | %d | %v | %v | %s |\n",
			totalCount,
			mean.Round(time.Millisecond),
			totalDuration.Round(time.Millisecond),
			humanBytes(avgSize),
		)
	}
}

func humanBytes(size int64) string {
	const (
		KB = 1024
		MB = KB * 1024
		GB = MB * 1024
	)
	switch {
	case size >= GB:
		return fmt.Sprintf("%.2f GB", float64(size)/GB)
	case size >= MB:
		return fmt.Sprintf("%.2f MB", float64(size)/MB)
	case size >= KB:
		return fmt.Sprintf("%.2f KB", float64(size)/KB)
	default:
		return fmt.Sprintf("%d B", size)
	}
}
