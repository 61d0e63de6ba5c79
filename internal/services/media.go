package services

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/sync/errgroup"

	"github.com/openlancer/openlancer-backend/internal/models"
)

// UploadTask describes one pending asset: what to upload and where to attach
// the resulting reference. Tasks live only in memory; work still queued when
// the process exits is lost.
type UploadTask struct {
	Collection  string
	TargetID    string
	FieldPath   string
	File        models.FileUpload
	ArrayAppend bool
	Extra       map[string]any
}

// TaskGroup is one independently-settled unit of media work: the profile's
// own images form one group, each sub-record's images another.
type TaskGroup struct {
	Label string
	Tasks []UploadTask
}

// MediaPipeline drains upload tasks after the primary record has been
// committed. It is strictly best effort: the submitter has already received
// a success response by the time any of this runs, so every failure here is
// logged and swallowed, never reported back.
type MediaPipeline struct {
	uploader *Uploader
	patcher  *Patcher
	wg       sync.WaitGroup
}

func NewMediaPipeline(uploader *Uploader, patcher *Patcher) *MediaPipeline {
	return &MediaPipeline{uploader: uploader, patcher: patcher}
}

// Dispatch starts processing the task groups and returns immediately; the
// caller never awaits completion. The context is detached so the end of the
// request cycle does not cancel in-flight uploads.
func (p *MediaPipeline) Dispatch(ctx context.Context, primaryID string, groups []TaskGroup) {
	if len(groups) == 0 {
		return
	}
	ctx = context.WithoutCancel(ctx)
	p.wg.Add(1)
	go func() {
		defer p.wg.Done()
		p.process(ctx, primaryID, groups)
	}()
}

// process joins the groups all-settle style: a failed group is logged and
// does not abort its siblings. Within a group tasks run sequentially, which
// keeps array appends in first-uploaded-first order.
func (p *MediaPipeline) process(ctx context.Context, primaryID string, groups []TaskGroup) {
	logCtx := slog.With("profileId", primaryID)
	logCtx.Info("Starting background media processing.", "groupCount", len(groups))

	var eg errgroup.Group
	eg.SetLimit(4)
	for _, group := range groups {
		eg.Go(func() error {
			if err := p.runGroup(ctx, group); err != nil {
				logCtx.Error("Media group failed; sibling groups unaffected.", "group", group.Label, "error", err)
			}
			return nil
		})
	}
	_ = eg.Wait()
	logCtx.Info("Background media processing settled.")
}

func (p *MediaPipeline) runGroup(ctx context.Context, group TaskGroup) error {
	for _, task := range group.Tasks {
		assetID, err := p.uploader.Upload(ctx, task.File.Data, UploadMeta{
			Filename:    task.File.Filename,
			ContentType: task.File.ContentType,
		})
		if err != nil {
			return err
		}
		ref := models.NewAssetReference(assetID)
		if err := p.patcher.Attach(ctx, task.Collection, task.TargetID, task.FieldPath, ref, task.ArrayAppend, task.Extra); err != nil {
			return err
		}
	}
	return nil
}

// Drain blocks until every dispatched group has settled or ctx expires. The
// server calls this during graceful shutdown so queued uploads are not
// silently dropped on a clean exit.
func (p *MediaPipeline) Drain(ctx context.Context) error {
	done := make(chan struct{})
	go func() {
		p.wg.Wait()
		close(done)
	}()
	select {
	case <-done:
		return nil
	case <-ctx.Done():
		return ctx.Err()
	}
}
