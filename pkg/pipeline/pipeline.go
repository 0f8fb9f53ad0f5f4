// Package pipeline runs the compliance checker over a directory of finished
// campaign assets and persists the resulting report. It is the batch-side
// collaborator of pkg/compliance: asset discovery, decoding and fan-out live
// here, verdict logic does not.
package pipeline

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"golang.org/x/sync/errgroup"

	"github.com/creativeforge/brandcheck/config"
	"github.com/creativeforge/brandcheck/pkg/compliance"
	"github.com/creativeforge/brandcheck/pkg/imageproc"
	"github.com/creativeforge/brandcheck/util/log"
)

// assetMeta is the optional sidecar document next to each image
// (foo.png -> foo.json) carrying what the generation pipeline knows about
// the asset: the literal rendered overlay text and the target ratio label.
type assetMeta struct {
	Text        string `json:"text"`
	AspectRatio string `json:"aspect_ratio"`
}

// Runner checks batches of assets against one set of guidelines.
type Runner struct {
	checker *compliance.Checker
	proc    *imageproc.Processor
	workers int
}

// RunnerOption customizes a Runner.
type RunnerOption func(*Runner)

// WithWorkers sets how many assets are checked in parallel. Zero or one
// means sequential. Parallelism never changes the observable result; the
// report keeps input order either way.
func WithWorkers(n int) RunnerOption {
	return func(r *Runner) { r.workers = n }
}

// NewRunner creates a batch runner around the given checker.
func NewRunner(checker *compliance.Checker, opts ...RunnerOption) *Runner {
	r := &Runner{
		checker: checker,
		proc:    imageproc.New(),
		workers: 1,
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

var imageExtensions = map[string]bool{
	".png":  true,
	".jpg":  true,
	".jpeg": true,
	".webp": true,
}

// LoadAssets discovers the campaign assets in dir, in lexical order. An
// undecodable image still yields an Asset, with a nil Image and the decode
// error attached, so the checker can attribute the failure in the report.
func (r *Runner) LoadAssets(dir string) ([]compliance.Asset, error) {
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("reading asset directory: %w", err)
	}

	names := make([]string, 0, len(entries))
	for _, e := range entries {
		if e.IsDir() || !imageExtensions[strings.ToLower(filepath.Ext(e.Name()))] {
			continue
		}
		names = append(names, e.Name())
	}
	sort.Strings(names)

	assets := make([]compliance.Asset, 0, len(names))
	for _, name := range names {
		path := filepath.Join(dir, name)
		asset := compliance.Asset{Path: path}

		data, err := os.ReadFile(path)
		if err != nil {
			asset.ReadErr = err
		} else if img, _, err := r.proc.Decode(data); err != nil {
			asset.ReadErr = err
		} else {
			asset.Image = img
		}

		meta, err := readSidecar(path)
		if err != nil {
			return nil, err
		}
		asset.Text = meta.Text
		asset.AspectRatio = meta.AspectRatio

		assets = append(assets, asset)
	}
	return assets, nil
}

// readSidecar loads foo.json for foo.png. A missing sidecar is fine; a
// malformed one is not, since silently dropping overlay text would skew the
// text checks.
func readSidecar(imagePath string) (assetMeta, error) {
	var meta assetMeta
	path := strings.TrimSuffix(imagePath, filepath.Ext(imagePath)) + ".json"

	data, err := os.ReadFile(path)
	if os.IsNotExist(err) {
		return meta, nil
	}
	if err != nil {
		return meta, fmt.Errorf("reading asset metadata: %w", err)
	}
	if err := json.Unmarshal(data, &meta); err != nil {
		return meta, fmt.Errorf("parsing asset metadata %s: %w", path, err)
	}
	return meta, nil
}

// Run checks every asset and folds the results into a finalized report.
// Workers write into an index-addressed slice, so the merge order is the
// input order and the report is identical to a sequential run.
func (r *Runner) Run(ctx context.Context, assets []compliance.Asset) (*compliance.Report, error) {
	results := make([]compliance.AssetResult, len(assets))

	if r.workers > 1 {
		g, ctx := errgroup.WithContext(ctx)
		g.SetLimit(r.workers)
		for i, a := range assets {
			i, a := i, a
			g.Go(func() error {
				if err := ctx.Err(); err != nil {
					return err
				}
				results[i] = r.checker.CheckAsset(a)
				return nil
			})
		}
		if err := g.Wait(); err != nil {
			return nil, err
		}
	} else {
		for i, a := range assets {
			if err := ctx.Err(); err != nil {
				return nil, err
			}
			results[i] = r.checker.CheckAsset(a)
		}
	}

	builder := compliance.NewReportBuilder(r.checker.Guidelines().BrandName)
	for _, res := range results {
		if err := builder.Add(res); err != nil {
			return nil, err
		}
	}

	report := builder.Finalize()
	log.Printf("checked %d assets: %d compliant, average score %.1f",
		report.TotalAssets, report.CompliantCount, report.AverageScore)
	return report, nil
}

// RunDir loads the assets in dir, checks them and writes the campaign
// report next to them.
func (r *Runner) RunDir(ctx context.Context, dir string) (*compliance.Report, error) {
	assets, err := r.LoadAssets(dir)
	if err != nil {
		return nil, err
	}
	report, err := r.Run(ctx, assets)
	if err != nil {
		return nil, err
	}
	reportPath := filepath.Join(dir, config.ReportFilename)
	if err := report.WriteFile(reportPath); err != nil {
		return nil, err
	}
	log.Debugf("report written to %s", reportPath)
	return report, nil
}
