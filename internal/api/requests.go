package api

import (
	"errors"
	"fmt"

	"github.com/janisto/scoring-api/internal/platform/validate"
	"github.com/janisto/scoring-api/internal/schema"
)

// AdminLogin is the privileged login.
const AdminLogin = "admin"

// Supported method names.
const (
	MethodOnlineScore      = "online_score"
	MethodClientsInterests = "clients_interests"
)

// MethodRequest is the validated method call envelope.
type MethodRequest struct {
	Account   *string
	Login     string
	Token     string
	Method    string
	Arguments map[string]any
}

// IsAdmin reports whether the caller uses the privileged login.
func (r *MethodRequest) IsAdmin() bool {
	return r.Login == AdminLogin
}

// OnlineScoreRequest holds validated online_score arguments.
// Nil pointers mark fields that were absent or null. Phone is always in string form.
type OnlineScoreRequest struct {
	FirstName *string
	LastName  *string
	Email     *string
	Phone     *string
	Birthday  *string
	Gender    *int
}

// ClientsInterestsRequest holds validated clients_interests arguments.
type ClientsInterestsRequest struct {
	ClientIDs []int64
	Date      *string
}

// Parser turns decoded JSON objects into validated requests.
// Schemas are built once and shared by every call.
type Parser struct {
	envelope         schema.Schema
	onlineScore      schema.Schema
	clientsInterests schema.Schema
}

// NewParser creates a Parser whose schemas use the checks of v.
func NewParser(v *validate.Validator) *Parser {
	return &Parser{
		envelope: schema.Schema{
			Name: "method_request",
			Fields: []schema.Field{
				{Name: "account", Required: true, Nullable: true, Check: v.String},
				{Name: "login", Required: true, Nullable: false, Check: v.String},
				{Name: "token", Required: true, Nullable: false, Check: v.String},
				{Name: "arguments", Required: true, Nullable: true, Check: v.Map},
				{Name: "method", Required: true, Nullable: false, Check: v.String},
			},
		},
		onlineScore: schema.Schema{
			Name: MethodOnlineScore,
			Fields: []schema.Field{
				{Name: "first_name", Nullable: true, Check: v.String},
				{Name: "last_name", Nullable: true, Check: v.String},
				{Name: "email", Nullable: true, Check: v.Email},
				{Name: "phone", Nullable: true, Check: v.Phone},
				{Name: "birthday", Nullable: true, Check: v.Birthday},
				{Name: "gender", Nullable: true, Check: v.Gender},
			},
		},
		clientsInterests: schema.Schema{
			Name: MethodClientsInterests,
			Fields: []schema.Field{
				{Name: "client_ids", Required: true, Nullable: false, Check: v.ClientIDs},
				{Name: "date", Nullable: true, Check: v.Date},
			},
		},
	}
}

// MethodRequest validates the call envelope.
func (p *Parser) MethodRequest(body map[string]any) (*MethodRequest, error) {
	if err := p.envelope.Validate(body); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMalformed, err)
	}
	req := &MethodRequest{
		Account: optString(body, "account"),
		Login:   body["login"].(string),
		Token:   body["token"].(string),
		Method:  body["method"].(string),
	}
	if args, ok := body["arguments"].(map[string]any); ok {
		req.Arguments = args
	}
	return req, nil
}

// OnlineScore validates online_score arguments, including the field pair rule.
func (p *Parser) OnlineScore(args map[string]any) (*OnlineScoreRequest, error) {
	if args == nil {
		return nil, fmt.Errorf("%w: arguments must be an object", ErrMalformed)
	}
	if err := p.onlineScore.Validate(args); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}
	if !hasScoringPair(args) {
		return nil, fmt.Errorf("%w: phone-email, first_name-last_name or gender-birthday required",
			ErrInsufficientFields)
	}

	req := &OnlineScoreRequest{
		FirstName: optString(args, "first_name"),
		LastName:  optString(args, "last_name"),
		Email:     optString(args, "email"),
		Birthday:  optString(args, "birthday"),
	}
	if phone, ok := validate.PhoneString(args["phone"]); ok {
		req.Phone = &phone
	}
	if n, ok := validate.Int(args["gender"]); ok {
		g := int(n)
		req.Gender = &g
	}
	return req, nil
}

// ClientsInterests validates clients_interests arguments.
func (p *Parser) ClientsInterests(args map[string]any) (*ClientsInterestsRequest, error) {
	if args == nil {
		return nil, fmt.Errorf("%w: arguments must be an object", ErrMalformed)
	}
	if err := p.clientsInterests.Validate(args); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrInvalidPayload, err)
	}

	items := args["client_ids"].([]any)
	ids := make([]int64, 0, len(items))
	for _, item := range items {
		n, _ := validate.Int(item)
		ids = append(ids, n)
	}
	return &ClientsInterestsRequest{
		ClientIDs: ids,
		Date:      optString(args, "date"),
	}, nil
}

// IsInvalid reports whether err rejects the request as invalid (as opposed to
// unknown method or forbidden).
func IsInvalid(err error) bool {
	return errors.Is(err, ErrMalformed) ||
		errors.Is(err, ErrInvalidPayload) ||
		errors.Is(err, ErrInsufficientFields)
}

func hasScoringPair(args map[string]any) bool {
	return schema.Present(args, "phone") && schema.Present(args, "email") ||
		schema.Present(args, "first_name") && schema.Present(args, "last_name") ||
		schema.Present(args, "gender") && schema.Present(args, "birthday")
}

func optString(values map[string]any, key string) *string {
	if s, ok := values[key].(string); ok {
		return &s
	}
	return nil
}
