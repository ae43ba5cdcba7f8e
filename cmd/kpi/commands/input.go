package commands

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/wonny/tradejournal/internal/api/handlers"
	"github.com/wonny/tradejournal/internal/journal"
	"github.com/wonny/tradejournal/internal/kpi"
	"github.com/wonny/tradejournal/pkg/httputil"
	"github.com/wonny/tradejournal/pkg/logger"
)

var (
	// Input flags (compute, group)
	dataFile      string
	tradesFile    string
	equityFile    string
	benchmarkFile string
	kpiList       string

	// Remote flags
	remoteURL     string
	remoteTimeout time.Duration
)

// addInputFlags registers the journal file flags on cmd
func addInputFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&dataFile, "data", "", "journal dataset file (.json, .yaml or trades-only .csv)")
	cmd.Flags().StringVar(&tradesFile, "trades", "", "trades CSV export")
	cmd.Flags().StringVar(&equityFile, "equity", "", "equity curve CSV export (optional)")
	cmd.Flags().StringVar(&benchmarkFile, "benchmark", "", "benchmark CSV export (optional)")
}

// addRemoteFlags registers the flags that send the work to a running API server
func addRemoteFlags(cmd *cobra.Command) {
	cmd.Flags().StringVar(&remoteURL, "remote", "", "KPI API base URL (e.g. http://localhost:8080); compute locally when empty")
	cmd.Flags().DurationVar(&remoteTimeout, "remote-timeout", 30*time.Second, "timeout per remote request")
}

// loadInput reads the journal named by the input flags
func loadInput() (*journal.Dataset, error) {
	switch {
	case dataFile != "" && (tradesFile != "" || equityFile != "" || benchmarkFile != ""):
		return nil, errors.New("use either --data or --trades/--equity/--benchmark")
	case dataFile != "":
		return journal.LoadDataset(dataFile)
	case tradesFile != "":
		return journal.LoadFiles(journal.Files{
			Trades:    tradesFile,
			Equity:    equityFile,
			Benchmark: benchmarkFile,
		})
	case equityFile != "" || benchmarkFile != "":
		return nil, errors.New("--equity and --benchmark need --trades")
	default:
		return nil, errors.New("no input: pass --data or --trades")
	}
}

// datasetFields summarizes a dataset for report headers
func datasetFields(ds *journal.Dataset) []Field {
	return []Field{
		{"Trades", strconv.Itoa(len(ds.Trades))},
		{"Equity points", strconv.Itoa(len(ds.Equity))},
		{"Benchmark points", strconv.Itoa(len(ds.Benchmark))},
	}
}

// =============================================================================
// Remote API
// =============================================================================

// remoteClient talks to a running `kpi serve`
type remoteClient struct {
	http *httputil.Client
	base string
}

func newRemoteClient(base string, timeout time.Duration, log *logger.Logger) (*remoteClient, error) {
	u, err := url.Parse(base)
	if err != nil || u.Scheme == "" || u.Host == "" {
		return nil, fmt.Errorf("invalid --remote URL %q", base)
	}
	return &remoteClient{
		http: httputil.NewWithTimeout(log, timeout).WithRetry(2, 500*time.Millisecond),
		base: strings.TrimRight(base, "/"),
	}, nil
}

func (c *remoteClient) compute(ctx context.Context, ds *journal.Dataset, ids []kpi.KPIId) (handlers.ComputeResponse, error) {
	var resp handlers.ComputeResponse
	err := c.http.PostJSONInto(ctx, c.base+"/api/kpi/compute", handlers.ComputeRequest{
		Trades:    ds.Trades,
		Equity:    ds.Equity,
		Benchmark: ds.Benchmark,
		KPIs:      slugs(ids),
	}, &resp)
	return resp, err
}

func (c *remoteClient) group(ctx context.Context, ds *journal.Dataset, by string) (handlers.GroupResponse, error) {
	var resp handlers.GroupResponse
	err := c.http.PostJSONInto(ctx, c.base+"/api/kpi/group?by="+url.QueryEscape(by), handlers.ComputeRequest{
		Trades:    ds.Trades,
		Equity:    ds.Equity,
		Benchmark: ds.Benchmark,
	}, &resp)
	return resp, err
}

func (c *remoteClient) definitions(ctx context.Context, category string) ([]kpi.KPIDefinition, error) {
	target := c.base + "/api/kpi/definitions"
	if category != "" {
		target += "?category=" + url.QueryEscape(category)
	}
	var resp struct {
		Definitions []kpi.KPIDefinition `json:"definitions"`
	}
	err := c.http.GetInto(ctx, target, &resp)
	return resp.Definitions, err
}

func (c *remoteClient) definition(ctx context.Context, id string) (kpi.KPIDefinition, error) {
	var def kpi.KPIDefinition
	err := c.http.GetInto(ctx, c.base+"/api/kpi/definitions/"+url.PathEscape(id), &def)
	return def, err
}
