package identity

import (
	"context"
	"runtime"

	"golang.org/x/sync/errgroup"

	"github.com/podiumstats/rostermatch/pkg/rules"
)

// entry is one record occurrence in an index bucket, remembering which
// variant produced it so clustering can apply the specificity policy.
type entry struct {
	rec     int
	variant Variant
}

// Index maps every variant value to the records that produced it. Two
// records sharing a bucket are candidates for the same identity.
type Index struct {
	Records []Record
	buckets map[string][]entry
	rules   *rules.RuleSet
}

// BuildIndex computes the variant set of every record and files the record
// under each of its variant values. Variant generation is pure per record and
// runs on all CPUs; the reduction into the bucket map is single-writer and
// walks records in input order, so bucket contents are deterministic.
func BuildIndex(ctx context.Context, records []Record, rs *rules.RuleSet) (*Index, error) {
	variants := make([][]Variant, len(records))

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(runtime.GOMAXPROCS(0))
	for i := range records {
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}
			variants[i] = Variants(records[i].Raw, rs)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}

	idx := &Index{
		Records: records,
		buckets: make(map[string][]entry),
		rules:   rs,
	}
	for i, vs := range variants {
		for _, v := range vs {
			idx.buckets[v.Value] = append(idx.buckets[v.Value], entry{rec: i, variant: v})
		}
	}
	return idx, nil
}

// BucketCount returns the number of distinct variant values in the index.
func (idx *Index) BucketCount() int { return len(idx.buckets) }
