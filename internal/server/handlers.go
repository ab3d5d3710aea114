package server

import (
	"context"
	"encoding/json"
	"net/http"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/gorilla/schema"

	"github.com/mcncl/jsonmodel/internal/errors"
	"github.com/mcncl/jsonmodel/internal/fetcher"
	"github.com/mcncl/jsonmodel/internal/models"
	"github.com/mcncl/jsonmodel/internal/parser"
)

var (
	validate      = validator.New()
	schemaDecoder = schema.NewDecoder()
)

func init() {
	schemaDecoder.IgnoreUnknownKeys(true)
	validate.RegisterTagNameFunc(fieldName)
}

// fieldName reports fields by their wire name in validation errors.
func fieldName(fld reflect.StructField) string {
	for _, tag := range []string{"json", "schema"} {
		name, _, _ := strings.Cut(fld.Tag.Get(tag), ",")
		if name == "-" {
			return ""
		}
		if name != "" {
			return name
		}
	}
	return fld.Name
}

// OptionsRequest overrides the server's default generation options.
type OptionsRequest struct {
	IncludeConstructor *bool  `json:"include_constructor"`
	NullSafety         *bool  `json:"null_safety"`
	SerializationStyle string `json:"serialization_style"`
	Package            string `json:"package" validate:"omitempty,max=255"`
}

// GenerateRequest is the body of POST /v1/generate. Exactly one of Document
// and URL is set.
type GenerateRequest struct {
	Document  json.RawMessage   `json:"document" validate:"required_without=URL,excluded_with=URL"`
	URL       string            `json:"url" validate:"omitempty,max=2048"`
	Headers   map[string]string `json:"headers"`
	AuthToken string            `json:"auth_token"`
	RootName  string            `json:"root_name" validate:"omitempty,max=128"`
	Language  string            `json:"language" validate:"required"`
	Options   OptionsRequest    `json:"options"`
}

// GenerateQuery is the query string of GET /v1/generate.
type GenerateQuery struct {
	URL         string   `schema:"url" validate:"required,max=2048"`
	Language    string   `schema:"language" validate:"required"`
	RootName    string   `schema:"root_name" validate:"omitempty,max=128"`
	Style       string   `schema:"style"`
	Constructor *bool    `schema:"constructor"`
	NullSafety  *bool    `schema:"null_safety"`
	Package     string   `schema:"package" validate:"omitempty,max=255"`
	Header      []string `schema:"header"`
}

// LanguageInfo describes one supported language.
type LanguageInfo struct {
	Language  models.Language `json:"language"`
	Extension string          `json:"extension"`
	Styles    []string        `json:"styles"`
}

func (s *Server) handleLanguages(w http.ResponseWriter, r *http.Request) {
	langs := s.opts.Engine.Languages()
	infos := make([]LanguageInfo, 0, len(langs))
	for _, lang := range langs {
		ext, err := s.opts.Engine.FileExtension(lang)
		if err != nil {
			s.writeError(w, err)
			return
		}
		infos = append(infos, LanguageInfo{
			Language:  lang,
			Extension: ext,
			Styles:    models.SerializationStyles(lang),
		})
	}
	writeJSON(w, http.StatusOK, infos)
}

func (s *Server) handleGenerate(w http.ResponseWriter, r *http.Request) {
	r.Body = http.MaxBytesReader(w, r.Body, fetcher.MaxBodySize)

	var req GenerateRequest
	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		s.writeError(w, errors.NewInputError("invalid request body", err))
		return
	}
	if err := validate.Struct(req); err != nil {
		s.writeError(w, err)
		return
	}

	opts := s.opts.Defaults
	if req.Options.IncludeConstructor != nil {
		opts.IncludeConstructor = *req.Options.IncludeConstructor
	}
	if req.Options.NullSafety != nil {
		opts.NullSafety = *req.Options.NullSafety
	}
	if req.Options.SerializationStyle != "" {
		opts.SerializationStyle = req.Options.SerializationStyle
	}
	if req.Options.Package != "" {
		opts.PackageName = req.Options.Package
	}

	var document func(ctx context.Context) (models.IntermediateRepresentation, error)
	if req.URL != "" {
		document = s.fetchDocument(req.URL, req.Headers, req.AuthToken)
	} else {
		document = func(context.Context) (models.IntermediateRepresentation, error) {
			return parser.ParseBytes(req.Document)
		}
	}

	s.generate(w, r, req.Language, req.RootName, opts, document)
}

func (s *Server) handleGenerateQuery(w http.ResponseWriter, r *http.Request) {
	var query GenerateQuery
	if err := schemaDecoder.Decode(&query, r.URL.Query()); err != nil {
		s.writeError(w, errors.NewInputError("invalid query string", err))
		return
	}
	if err := validate.Struct(query); err != nil {
		s.writeError(w, err)
		return
	}

	headers, err := fetcher.ParseHeaders(query.Header)
	if err != nil {
		s.writeError(w, err)
		return
	}

	opts := s.opts.Defaults
	if query.Constructor != nil {
		opts.IncludeConstructor = *query.Constructor
	}
	if query.NullSafety != nil {
		opts.NullSafety = *query.NullSafety
	}
	if query.Style != "" {
		opts.SerializationStyle = query.Style
	}
	if query.Package != "" {
		opts.PackageName = query.Package
	}

	s.generate(w, r, query.Language, query.RootName, opts, s.fetchDocument(query.URL, headers, ""))
}

func (s *Server) generate(
	w http.ResponseWriter,
	r *http.Request,
	language, rootName string,
	opts models.GenerationOptions,
	document func(ctx context.Context) (models.IntermediateRepresentation, error),
) {
	lang, err := models.ParseLanguage(language)
	if err != nil {
		s.writeError(w, err)
		return
	}
	if err := opts.Validate(lang); err != nil {
		s.writeError(w, err)
		return
	}

	ir, err := document(r.Context())
	if err != nil {
		s.writeError(w, err)
		return
	}

	if rootName == "" {
		rootName = s.opts.RootName
	}
	out, err := s.opts.Engine.Generate(ir.Root, rootName, lang, opts)
	if err != nil {
		s.writeError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, out)
}

// fetchDocument merges request headers over the configured ones. A body that
// is not JSON is the upstream's fault and is reported as a fetch error.
func (s *Server) fetchDocument(url string, headers map[string]string, token string) func(context.Context) (models.IntermediateRepresentation, error) {
	return func(ctx context.Context) (models.IntermediateRepresentation, error) {
		merged := make(map[string]string, len(s.opts.Headers)+len(headers))
		for k, v := range s.opts.Headers {
			merged[k] = v
		}
		for k, v := range headers {
			merged[k] = v
		}
		if token == "" {
			token = s.opts.AuthToken
		}

		body, err := s.opts.Fetcher.FetchBytes(ctx, url, fetcher.RequestOptions{Headers: merged, AuthToken: token})
		if err != nil {
			return models.IntermediateRepresentation{}, err
		}
		ir, err := parser.ParseBytes(body)
		if err != nil {
			return models.IntermediateRepresentation{}, errors.NewFetchError("response is not a JSON document", err)
		}
		return ir, nil
	}
}
