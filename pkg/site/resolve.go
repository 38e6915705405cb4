package site

import (
	"context"
	"mime"
	"net/url"
	"path"
	"strings"

	"github.com/sitebox/sitebox/pkg/db"
	"github.com/sitebox/sitebox/pkg/sberr"
)

// Content is a resolved response body.
type Content struct {
	Data         []byte
	ContentType  string
	CacheControl string
}

// Content is immutable once ingested and keyed by a fresh random token,
// so clients may cache for an hour.
const cacheControl = "public, max-age=3600"

// Resolve maps (token, path segments) to stored bytes.
//
// Fails not_found for an unknown token, gone when the project is expired
// (the expires_at timestamp is checked directly, so an expired project
// never serves even before the reclamation pass flips its status), and
// bad_request for any traversal segment, which is rejected before any
// backend is consulted.
//
// The storage key is completed in order: exact, key+".html",
// key+"/index.html". The first key some backend holds is served.
func (s *Service) Resolve(ctx context.Context, token string, segments []string) (*Content, error) {
	c, err := s.resolve(ctx, token, segments)
	if err != nil {
		s.metrics.IncServe(string(sberr.CodeOf(err)))
		return nil, err
	}
	s.metrics.IncServe("ok")
	return c, nil
}

func (s *Service) resolve(ctx context.Context, token string, segments []string) (*Content, error) {
	rel, err := joinSegments(segments)
	if err != nil {
		return nil, err
	}

	project, err := s.projects.FindByToken(ctx, token)
	if err != nil {
		if err == db.ErrProjectNotFound {
			return nil, sberr.Newf(sberr.CodeNotFound, "no project for token %q", token)
		}
		return nil, sberr.New(sberr.CodeInternal, err)
	}

	if project.Expired(s.now()) {
		return nil, sberr.Newf(sberr.CodeGone, "project %q expired", token)
	}

	if rel == "" {
		rel = project.EntryPoint
	}

	base := project.StoragePath + "/" + rel
	for _, key := range []string{base, base + ".html", base + "/index.html"} {
		if !s.router.Exists(ctx, key) {
			continue
		}
		data, backendType, err := s.router.Get(ctx, key)
		if err != nil {
			return nil, sberr.New(sberr.CodeInternal, err)
		}
		return &Content{
			Data:         data,
			ContentType:  contentTypeFor(key, backendType),
			CacheControl: cacheControl,
		}, nil
	}

	return nil, sberr.Newf(sberr.CodeNotFound, "no stored object matches %q", rel)
}

// joinSegments validates and joins request path segments. Any segment
// that is, or percent-decodes to, a ".." is a traversal attempt and is
// rejected here, never handed to a backend.
func joinSegments(segments []string) (string, error) {
	parts := make([]string, 0, len(segments))
	for _, seg := range segments {
		if seg == "" {
			continue
		}
		decoded, err := url.PathUnescape(seg)
		if err != nil {
			decoded = seg
		}
		if seg == ".." || decoded == ".." || strings.ContainsAny(decoded, `/\`) {
			return "", sberr.Newf(sberr.CodeBadRequest, "invalid path segment %q", seg)
		}
		parts = append(parts, decoded)
	}
	return strings.Join(parts, "/"), nil
}

func contentTypeFor(key, backendReported string) string {
	if t := mime.TypeByExtension(path.Ext(key)); t != "" {
		return t
	}
	if backendReported != "" {
		return backendReported
	}
	return "application/octet-stream"
}
