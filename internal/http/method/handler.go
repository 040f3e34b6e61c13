// Package method serves the scoring method calls.
//
// A call is checked in a fixed order: JSON body, login, envelope, token, then
// the method arguments. The first failing step decides the response code.
package method

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"

	"github.com/labstack/echo/v5"

	"github.com/janisto/scoring-api/internal/api"
	applog "github.com/janisto/scoring-api/internal/platform/logging"
	"github.com/janisto/scoring-api/internal/platform/metrics"
	"github.com/janisto/scoring-api/internal/platform/respond"
)

// Authorizer checks the token of a validated envelope.
type Authorizer interface {
	Authorize(req *api.MethodRequest) bool
}

// Service runs a named method for login.
type Service interface {
	Handle(ctx context.Context, method string, args map[string]any, login string) (any, error)
}

// Register wires the method routes into g. POST /method dispatches on the
// envelope's method field; POST /:method dispatches on the path.
func Register(g *echo.Group, parser *api.Parser, authz Authorizer, svc Service) {
	h := &handler{parser: parser, authz: authz, svc: svc}
	g.POST("/method", h.handleEnvelope)
	g.POST("/:method", h.handlePath)
}

// Request documents the method call envelope.
type Request struct {
	Account   *string        `json:"account"   example:"horns&hoofs"`
	Login     string         `json:"login"     example:"h&f"`
	Token     string         `json:"token"     example:"55cc9ce545bcd144300fe9efc28e65d415b923ebb6be1e19d2750a2c03e80dd209a27954dca045e5bb12418e7d89b6d718a9e35af34e14e1d5bcd5a08f21fc95"`
	Method    string         `json:"method"    example:"online_score"`
	Arguments map[string]any `json:"arguments"`
}

// handleEnvelope godoc
//
//	@Summary		Call a method
//	@Description	Runs online_score or clients_interests as named by the envelope's method field
//	@Tags			method
//	@Accept			json
//	@Produce		json,application/cbor
//	@Param			body	body		Request	true	"Method call envelope"
//	@Success		200		{object}	respond.Success
//	@Failure		400		{object}	respond.Failure
//	@Failure		403		{object}	respond.Failure
//	@Failure		404		{object}	respond.Failure
//	@Failure		422		{object}	respond.Failure
//	@Failure		500		{object}	respond.Failure
//	@Router			/method [post]
func (h *handler) handleEnvelope(c *echo.Context) error {
	return h.serve(c, "")
}

// handlePath godoc
//
//	@Summary		Call a method by path
//	@Description	Runs the method named by the path; the envelope must still carry a method field
//	@Tags			method
//	@Accept			json
//	@Produce		json,application/cbor
//	@Param			method	path		string	true	"Method name"	Enums(online_score, clients_interests)
//	@Param			body	body		Request	true	"Method call envelope"
//	@Success		200		{object}	respond.Success
//	@Failure		400		{object}	respond.Failure
//	@Failure		403		{object}	respond.Failure
//	@Failure		404		{object}	respond.Failure
//	@Failure		422		{object}	respond.Failure
//	@Failure		500		{object}	respond.Failure
//	@Router			/{method} [post]
func (h *handler) handlePath(c *echo.Context) error {
	// The whole path names the method, so a nested path like
	// /anything/online_score resolves to no method and answers 404.
	return h.serve(c, strings.Trim(c.Request().URL.Path, "/"))
}

type handler struct {
	parser *api.Parser
	authz  Authorizer
	svc    Service
}

// serve runs one call. route is the method named by the path, empty when the
// envelope names it.
func (h *handler) serve(c *echo.Context, route string) error {
	ctx := c.Request().Context()

	body, err := decodeBody(c.Request().Body)
	if err != nil {
		return observe(route, fmt.Errorf("%w: %w", api.ErrBadRequest, err))
	}
	if login, _ := body["login"].(string); login == "" {
		return observe(route, fmt.Errorf("%w: login is required", api.ErrMalformed))
	}

	req, err := h.parser.MethodRequest(body)
	if err != nil {
		return observe(route, err)
	}

	name := route
	if name == "" {
		name = req.Method
	}

	allowed := h.authz.Authorize(req)
	applog.LogAuthEvent(ctx, req.Login, name, allowed)
	if !allowed {
		return observe(name, api.ErrForbidden)
	}

	applog.LogInfo(ctx, "method call",
		slog.String("method", name),
		slog.String("login", req.Login))

	result, err := h.svc.Handle(ctx, name, req.Arguments, req.Login)
	if err != nil {
		return observe(name, err)
	}
	metrics.ObserveMethod(methodLabel(name), http.StatusOK)
	return respond.OK(c, result)
}

// decodeBody reads a single JSON object. Numbers are kept as json.Number so
// integer checks can tell 1 from 1.0.
func decodeBody(r io.Reader) (map[string]any, error) {
	dec := json.NewDecoder(r)
	dec.UseNumber()

	var body map[string]any
	if err := dec.Decode(&body); err != nil {
		return nil, err
	}
	if body == nil {
		return nil, errors.New("body is not a JSON object")
	}
	if err := dec.Decode(&struct{}{}); !errors.Is(err, io.EOF) {
		return nil, errors.New("unexpected data after JSON object")
	}
	return body, nil
}

func observe(name string, err error) error {
	metrics.ObserveMethod(methodLabel(name), respond.Status(err))
	return err
}

// methodLabel keeps the metric label set bounded.
func methodLabel(name string) string {
	switch name {
	case api.MethodOnlineScore, api.MethodClientsInterests:
		return name
	case "":
		return "none"
	default:
		return "unknown"
	}
}
