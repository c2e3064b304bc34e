/*
Copyright © 2026 Seednode <seednode@seedno.de>
*/

package main

import (
	"encoding/json"
	"errors"
	"io"
	"mime"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/julienschmidt/httprouter"
	"github.com/skip2/go-qrcode"
)

const (
	qrSize = 320

	// multipartOverhead is the slack allowed on top of the file itself for
	// boundaries and part headers.
	multipartOverhead = 64 << 10
)

type UploadResponse struct {
	Code     string `json:"code"`
	FileName string `json:"fileName"`
	MimeType string `json:"mimetype"`
}

type FileInfoResponse struct {
	FileName   string    `json:"fileName"`
	MimeType   string    `json:"mimetype"`
	UploadedAt time.Time `json:"uploadedAt"`
	Size       int       `json:"size"`
}

type DareResponse struct {
	Dare string `json:"dare"`
}

type HealthResponse struct {
	Status    string    `json:"status"`
	Timestamp time.Time `json:"timestamp"`
}

type ErrorResponse struct {
	Error string `json:"error"`
}

// allowCrossOrigin opens the API to the separately hosted web client.
func allowCrossOrigin(w http.ResponseWriter) {
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type")
	w.Header().Set("Cross-Origin-Resource-Policy", "cross-origin")
}

func serveJSON(cfg *Config, w http.ResponseWriter, status int, v any, errs chan<- error) {
	w.Header().Set("Content-Type", "application/json; charset=utf-8")
	securityHeaders(cfg, w)
	allowCrossOrigin(w)
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(v); err != nil {
		errs <- err
	}
}

func serveError(cfg *Config, w http.ResponseWriter, status int, message string, errs chan<- error) {
	serveJSON(cfg, w, status, ErrorResponse{Error: message}, errs)
}

func serveUpload(cfg *Config, files *FileStore, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		startTime := time.Now()

		limit := cfg.maxUploadSize + multipartOverhead

		if r.ContentLength > limit {
			serveError(cfg, w, http.StatusRequestEntityTooLarge, "File too large", errs)
			return
		}

		r.Body = http.MaxBytesReader(w, r.Body, limit)

		file, header, err := r.FormFile("file")
		if err != nil {
			var tooLarge *http.MaxBytesError
			if errors.As(err, &tooLarge) {
				serveError(cfg, w, http.StatusRequestEntityTooLarge, "File too large", errs)
				return
			}

			serveError(cfg, w, http.StatusBadRequest, "No file uploaded", errs)
			return
		}
		defer file.Close()

		data, err := io.ReadAll(file)
		if err != nil || int64(len(data)) > cfg.maxUploadSize {
			serveError(cfg, w, http.StatusRequestEntityTooLarge, "File too large", errs)
			return
		}

		mimeType := header.Header.Get("Content-Type")
		if mimeType == "" {
			mimeType = http.DetectContentType(data)
		}

		f := files.Put(data, header.Filename, mimeType)

		logf(cfg, "FILES: Stored %q (%s) as %s from %s in %s",
			f.FileName,
			humanReadableSize(int64(len(data))),
			f.Code,
			realIP(r),
			time.Since(startTime).Round(time.Microsecond),
		)

		serveJSON(cfg, w, http.StatusOK, UploadResponse{
			Code:     f.Code,
			FileName: f.FileName,
			MimeType: f.MimeType,
		}, errs)
	}
}

func serveFileInfo(cfg *Config, files *FileStore, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		f, err := files.Get(p.ByName("code"))
		if err != nil {
			serveError(cfg, w, http.StatusNotFound, "File not found", errs)
			return
		}

		serveJSON(cfg, w, http.StatusOK, FileInfoResponse{
			FileName:   f.FileName,
			MimeType:   f.MimeType,
			UploadedAt: f.UploadedAt,
			Size:       len(f.Data),
		}, errs)
	}
}

func serveDownload(cfg *Config, files *FileStore, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		startTime := time.Now()

		f, err := files.Get(p.ByName("code"))
		if err != nil {
			serveError(cfg, w, http.StatusNotFound, "File not found", errs)
			return
		}

		disposition := mime.FormatMediaType("attachment", map[string]string{"filename": f.FileName})
		if disposition == "" {
			disposition = "attachment"
		}

		w.Header().Set("Content-Type", f.MimeType)
		w.Header().Set("Content-Disposition", disposition)
		w.Header().Set("Content-Length", strconv.Itoa(len(f.Data)))
		securityHeaders(cfg, w)
		allowCrossOrigin(w)

		written, err := w.Write(f.Data)
		if err != nil {
			errs <- err

			return
		}

		logf(cfg, "SERVE: %q (%s) to %s in %s",
			f.FileName,
			humanReadableSize(int64(written)),
			realIP(r),
			time.Since(startTime).Round(time.Microsecond),
		)
	}
}

// serveQR renders a PNG QR code linking the receiver straight to a file.
func serveQR(cfg *Config, files *FileStore, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		f, err := files.Get(p.ByName("code"))
		if err != nil {
			serveError(cfg, w, http.StatusNotFound, "File not found", errs)
			return
		}

		scheme := "http"
		if r.TLS != nil {
			scheme = "https"
		}
		if proto := r.Header.Get("X-Forwarded-Proto"); proto != "" {
			scheme = proto
		}

		link := url.URL{
			Scheme:   scheme,
			Host:     r.Host,
			Path:     cfg.prefix + "/",
			RawQuery: url.Values{"code": {f.Code}, "view": {"receiver"}}.Encode(),
		}

		png, err := qrcode.Encode(link.String(), qrcode.Medium, qrSize)
		if err != nil {
			serveError(cfg, w, http.StatusInternalServerError, "QR generation failed", errs)
			return
		}

		w.Header().Set("Content-Type", "image/png")
		securityHeaders(cfg, w)
		allowCrossOrigin(w)

		if _, err := w.Write(png); err != nil {
			errs <- err
		}
	}
}

func serveDareCategories(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		serveJSON(cfg, w, http.StatusOK, dareCategories, errs)
	}
}

func serveRandomDare(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, p httprouter.Params) {
		dare, err := RandomDare(p.ByName("category"))
		if err != nil {
			serveError(cfg, w, http.StatusNotFound, "Category not found", errs)
			return
		}

		serveJSON(cfg, w, http.StatusOK, DareResponse{Dare: dare}, errs)
	}
}

func serveGames(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		serveJSON(cfg, w, http.StatusOK, listGames(), errs)
	}
}

func serveAPIHealth(cfg *Config, errs chan<- error) httprouter.Handle {
	return func(w http.ResponseWriter, r *http.Request, _ httprouter.Params) {
		serveJSON(cfg, w, http.StatusOK, HealthResponse{
			Status:    "ok",
			Timestamp: time.Now().UTC(),
		}, errs)
	}
}
