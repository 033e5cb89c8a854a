package cluster

import (
	"math"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/cognicore/hobbytag/pkg/hobbytag/analytics"
	"github.com/cognicore/hobbytag/pkg/hobbytag/assemble"
)

// Report and simple-output file names
const (
	ReportFile = "hobby_raw_embedding_report.json"
	SimpleFile = "hobby_raw_clusters_simple.json"
)

// SourceField is the record field clustered
const SourceField = "hobby"

// Row is one respondent with a usable hobby list
type Row struct {
	ID    int      `json:"id"`
	Alias string   `json:"alias"`
	Hobby []string `json:"hobby"`
}

// Text is the string embedded for the row
func (r Row) Text() string {
	return strings.Join(r.Hobby, ", ")
}

// RowsFromRecords keeps records whose hobbies survive trim, lowercase and
// blank removal.
func RowsFromRecords(records []assemble.FinalRecord) []Row {
	var rows []Row
	for _, rec := range records {
		var hobbies []string
		for _, h := range rec.Hobby {
			h = strings.ToLower(strings.TrimSpace(h))
			if h != "" {
				hobbies = append(hobbies, h)
			}
		}
		if len(hobbies) == 0 {
			continue
		}
		rows = append(rows, Row{ID: rec.ID, Alias: rec.Alias, Hobby: hobbies})
	}
	return rows
}

// Cluster is one group of the report
type Cluster struct {
	ClusterID int                   `json:"cluster_id"`
	Size      int                   `json:"size"`
	TopTerms  []analytics.TermCount `json:"top_terms"`
	Members   []Row                 `json:"members"`
}

// Report is the hobby_raw_embedding_report.json document
type Report struct {
	Model         string    `json:"model"`
	SourceField   string    `json:"source_field"`
	InputRows     int       `json:"input_rows"`
	EmbeddingDims int       `json:"embedding_dims"`
	K             int       `json:"k"`
	GeneratedAt   time.Time `json:"generated_at"`
	Clusters      []Cluster `json:"clusters"`
}

// MemberRef identifies a respondent in the simple output
type MemberRef struct {
	ID    int    `json:"id"`
	Alias string `json:"alias"`
}

// SimpleCluster lists a cluster's members only
type SimpleCluster struct {
	Cluster int         `json:"cluster"`
	Members []MemberRef `json:"members"`
}

// BuildReport groups rows by label. Every id up to the highest label gets
// a cluster, then clusters are ordered by descending size (stable).
func BuildReport(rows []Row, labels []int, model string, dims, k int, now time.Time) Report {
	report := Report{
		Model:         model,
		SourceField:   SourceField,
		InputRows:     len(rows),
		EmbeddingDims: dims,
		K:             k,
		GeneratedAt:   now.UTC(),
		Clusters:      []Cluster{},
	}
	count := 0
	for _, l := range labels {
		count = max(count, l+1)
	}

	for c := 0; c < count; c++ {
		cl := Cluster{ClusterID: c, Members: []Row{}}
		var tags []string
		for i, l := range labels {
			if l != c {
				continue
			}
			cl.Members = append(cl.Members, rows[i])
			tags = append(tags, rows[i].Hobby...)
		}
		cl.Size = len(cl.Members)
		cl.TopTerms = TopTerms(tags, DefaultTopTerms)
		report.Clusters = append(report.Clusters, cl)
	}
	sort.SliceStable(report.Clusters, func(i, j int) bool {
		return report.Clusters[i].Size > report.Clusters[j].Size
	})
	return report
}

// Simple reduces a report to cluster membership, in report order
func Simple(r Report) []SimpleCluster {
	out := make([]SimpleCluster, len(r.Clusters))
	for i, c := range r.Clusters {
		members := make([]MemberRef, len(c.Members))
		for j, m := range c.Members {
			members[j] = MemberRef{ID: m.ID, Alias: m.Alias}
		}
		out[i] = SimpleCluster{Cluster: c.ClusterID, Members: members}
	}
	return out
}

// ParseK reads a cluster count. Non-numeric values and values below 2 fall
// back to DefaultK; fractions are floored and huge values capped at
// math.MaxInt32 (k-means never uses more clusters than rows).
func ParseK(s string) int {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(v) || math.IsInf(v, 0) || v < 2 {
		return DefaultK
	}
	return int(math.Floor(math.Min(v, math.MaxInt32)))
}
