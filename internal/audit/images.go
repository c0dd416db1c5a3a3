package audit

import (
	"context"
	"encoding/base64"
	"io"
	"log/slog"
	"math"
	"net/http"
	"net/url"
	"path"
	"slices"
	"strings"
	"time"

	exif "github.com/dsoprea/go-exif/v3"
	"golang.org/x/sync/errgroup"

	"github.com/nao1215/seoaudit/internal/liveness"
	"github.com/nao1215/seoaudit/internal/model"
	"github.com/nao1215/seoaudit/internal/urlnorm"
)

// Defaults for an ImageChecker.
const (
	// DefaultMaxImageSize limits the image bytes downloaded for EXIF scanning.
	DefaultMaxImageSize int64 = 5 * 1024 * 1024

	// DefaultImageTimeout bounds one image download.
	DefaultImageTimeout = 10 * time.Second

	// DefaultImageConcurrency is the number of images checked at once.
	DefaultImageConcurrency = 4
)

// exifExtensions are the file types that can carry EXIF metadata.
var exifExtensions = map[string]bool{
	".jpg": true, ".jpeg": true, ".tif": true, ".tiff": true,
	".png": true, ".webp": true, ".heic": true, ".heif": true,
}

// exifTagsOfInterest are the tags worth reporting: location, device and
// author details.
var exifTagsOfInterest = map[string]bool{
	"GPSLatitude": true, "GPSLongitude": true, "GPSAltitude": true,
	"Make": true, "Model": true, "LensModel": true,
	"SerialNumber": true, "BodySerialNumber": true, "LensSerialNumber": true, "CameraSerialNumber": true,
	"Software": true, "HostComputer": true,
	"Artist": true, "Copyright": true, "XPAuthor": true,
	"DateTimeOriginal": true,
}

// HeadProber performs the HEAD request of the image size check.
// *liveness.Checker satisfies it.
type HeadProber interface {
	Head(ctx context.Context, u string) (*liveness.Probe, error)
}

// ImageChecker runs the network-bound image checks.
type ImageChecker struct {
	prober       HeadProber
	client       *http.Client
	userAgent    string
	timeout      time.Duration
	maxImageSize int64
	concurrency  int
	logger       *slog.Logger
}

// ImageOption configures an ImageChecker.
type ImageOption func(*ImageChecker)

// WithImageConcurrency sets how many images are checked at once.
func WithImageConcurrency(n int) ImageOption {
	return func(c *ImageChecker) {
		if n > 0 {
			c.concurrency = n
		}
	}
}

// WithImageTimeout sets the download timeout of the EXIF check.
func WithImageTimeout(d time.Duration) ImageOption {
	return func(c *ImageChecker) {
		if d > 0 {
			c.timeout = d
		}
	}
}

// WithMaxImageSize sets the largest image downloaded for EXIF scanning.
func WithMaxImageSize(n int64) ImageOption {
	return func(c *ImageChecker) {
		if n > 0 {
			c.maxImageSize = n
		}
	}
}

// WithImageUserAgent sets the User-Agent of image downloads.
func WithImageUserAgent(ua string) ImageOption {
	return func(c *ImageChecker) {
		if ua != "" {
			c.userAgent = ua
		}
	}
}

// WithImageLogger sets the logger.
func WithImageLogger(logger *slog.Logger) ImageOption {
	return func(c *ImageChecker) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewImageChecker creates an ImageChecker. prober serves the size check,
// client downloads images for the EXIF check.
func NewImageChecker(prober HeadProber, client *http.Client, opts ...ImageOption) *ImageChecker {
	if client == nil {
		client = http.DefaultClient
	}
	c := &ImageChecker{
		prober:       prober,
		client:       client,
		userAgent:    "SEO-Audit-Bot/6.0 (+https://github.com/nao1215/seoaudit)",
		timeout:      DefaultImageTimeout,
		maxImageSize: DefaultMaxImageSize,
		concurrency:  DefaultImageConcurrency,
		logger:       slog.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// imageRef is a unique image source with the pages that embed it.
type imageRef struct {
	src   string
	pages []string
}

// collectImages returns the unique image sources of corpus in first-seen order.
func collectImages(corpus model.Corpus) []imageRef {
	index := make(map[string]int)
	var refs []imageRef
	for _, p := range corpus {
		for _, img := range p.Images {
			i, ok := index[img.Src]
			if !ok {
				i = len(refs)
				index[img.Src] = i
				refs = append(refs, imageRef{src: img.Src})
			}
			if !slices.Contains(refs[i].pages, p.URL) {
				refs[i].pages = append(refs[i].pages, p.URL)
			}
		}
	}
	return refs
}

// CheckSizes flags images whose declared Content-Length exceeds thresholdKB.
// Each image is checked once. Images that cannot be probed, answer with an
// error status or declare no length are skipped.
func (c *ImageChecker) CheckSizes(ctx context.Context, corpus model.Corpus, thresholdKB int) ([]model.Issue, error) {
	if thresholdKB <= 0 {
		thresholdKB = model.DefaultLargeImageKB
	}
	refs := collectImages(corpus)

	return c.forEach(ctx, refs, func(ctx context.Context, ref imageRef) *model.Issue {
		if !urlnorm.IsHTTP(ref.src) {
			return nil
		}
		probe, err := c.prober.Head(ctx, ref.src)
		if err != nil {
			c.logger.Debug("could not check image size", "image", ref.src, "error", err)
			return nil
		}
		if probe.StatusCode >= http.StatusBadRequest || probe.ContentLength < 0 {
			return nil
		}

		sizeKB := float64(probe.ContentLength) / 1024
		if sizeKB <= float64(thresholdKB) {
			return nil
		}
		issue := model.NewIssue(model.IssueLargeImages, ref.src)
		issue.SizeKB = math.Round(sizeKB*100) / 100
		issue.FoundOn = ref.pages
		return &issue
	})
}

// CheckEXIF downloads images that can carry EXIF data and flags those that
// disclose location, device or author details. Inline data: images are
// decoded without a request.
func (c *ImageChecker) CheckEXIF(ctx context.Context, corpus model.Corpus) ([]model.Issue, error) {
	refs := collectImages(corpus)

	return c.forEach(ctx, refs, func(ctx context.Context, ref imageRef) *model.Issue {
		var data []byte
		switch {
		case strings.HasPrefix(ref.src, "data:image/"):
			data = decodeDataURL(ref.src)
		case urlnorm.IsHTTP(ref.src) && mayCarryEXIF(ref.src):
			data = c.download(ctx, ref.src)
		}
		if len(data) == 0 {
			return nil
		}

		tags := exifTags(data)
		if len(tags) == 0 {
			return nil
		}
		display := ref.src
		if strings.HasPrefix(display, "data:") {
			display = "data:URL"
		}
		issue := model.NewIssue(model.IssueImgEXIFMetadata, display)
		issue.Value = strings.Join(tags, ", ")
		issue.FoundOn = ref.pages
		return &issue
	})
}

// forEach runs check over refs with bounded concurrency and returns the
// issues in ref order.
func (c *ImageChecker) forEach(ctx context.Context, refs []imageRef, check func(context.Context, imageRef) *model.Issue) ([]model.Issue, error) {
	found := make([]*model.Issue, len(refs))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(c.concurrency)
	for i, ref := range refs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			found[i] = check(gctx, ref)
			return nil
		})
	}
	err := g.Wait()

	issues := make([]model.Issue, 0)
	for _, issue := range found {
		if issue != nil {
			issues = append(issues, *issue)
		}
	}
	return issues, err
}

// download fetches an image body, giving up on anything larger than
// maxImageSize.
func (c *ImageChecker) download(ctx context.Context, src string) []byte {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, src, nil)
	if err != nil {
		return nil
	}
	req.Header.Set("User-Agent", c.userAgent)

	resp, err := c.client.Do(req)
	if err != nil {
		c.logger.Debug("could not download image", "image", src, "error", err)
		return nil
	}
	defer resp.Body.Close()

	if resp.StatusCode >= http.StatusBadRequest || resp.ContentLength > c.maxImageSize {
		return nil
	}
	data, err := io.ReadAll(io.LimitReader(resp.Body, c.maxImageSize+1))
	if err != nil || int64(len(data)) > c.maxImageSize {
		return nil
	}
	return data
}

// mayCarryEXIF reports whether the URL path names an EXIF-capable format.
func mayCarryEXIF(src string) bool {
	u, err := url.Parse(src)
	if err != nil {
		return false
	}
	return exifExtensions[strings.ToLower(path.Ext(u.Path))]
}

// decodeDataURL returns the payload of a base64 data: URL.
func decodeDataURL(src string) []byte {
	meta, payload, ok := strings.Cut(src, ",")
	if !ok || !strings.HasSuffix(meta, ";base64") {
		return nil
	}
	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		data, err = base64.URLEncoding.DecodeString(payload)
		if err != nil {
			return nil
		}
	}
	return data
}

// exifTags returns the sorted names of the reportable EXIF tags in data.
func exifTags(data []byte) []string {
	rawExif, err := exif.SearchAndExtractExif(data)
	if err != nil || rawExif == nil {
		return nil
	}
	entries, _, err := exif.GetFlatExifData(rawExif, nil)
	if err != nil {
		return nil
	}

	var tags []string
	for _, entry := range entries {
		if exifTagsOfInterest[entry.TagName] && !slices.Contains(tags, entry.TagName) {
			tags = append(tags, entry.TagName)
		}
	}
	slices.Sort(tags)
	return tags
}
