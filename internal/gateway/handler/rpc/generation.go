package rpc

import (
	"context"
	"errors"
	"net/http"

	"connectrpc.com/connect"

	"pixelforge/internal/gateway/session"
	"pixelforge/internal/generate"
)

const (
	GenerateProcedure = "/pixelforge.v1.GenerationService/Generate"
	RefineProcedure   = "/pixelforge.v1.GenerationService/Refine"
)

// GenerationHandler serves the generation RPCs over connect.
type GenerationHandler struct {
	svc *session.Service
}

func NewGenerationHandler(svc *session.Service) *GenerationHandler {
	return &GenerationHandler{svc: svc}
}

type GenerateRequest struct {
	SessionID string `json:"session_id"`
}

type RefineRequest struct {
	SessionID   string `json:"session_id"`
	Instruction string `json:"instruction"`
}

type ChatMessage struct {
	Author string `json:"author"`
	Text   string `json:"text"`
}

type GenerationResponse struct {
	SessionID   string                   `json:"session_id"`
	Shape       string                   `json:"shape"`
	Document    string                   `json:"document,omitempty"`
	Files       []generate.GeneratedFile `json:"files,omitempty"`
	Suggestions []string                 `json:"suggestions"`
	Narrative   string                   `json:"narrative,omitempty"`
	View        string                   `json:"view"`
	History     []ChatMessage            `json:"history"`
}

func (h *GenerationHandler) Generate(ctx context.Context, req *connect.Request[GenerateRequest]) (*connect.Response[GenerationResponse], error) {
	if req.Msg.SessionID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("session_id is required"))
	}
	result, err := h.svc.Generate(ctx, req.Msg.SessionID)
	if err != nil {
		return nil, rpcError(err)
	}
	return connect.NewResponse(h.toResponse(req.Msg.SessionID, result)), nil
}

func (h *GenerationHandler) Refine(ctx context.Context, req *connect.Request[RefineRequest]) (*connect.Response[GenerationResponse], error) {
	if req.Msg.SessionID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errors.New("session_id is required"))
	}
	result, err := h.svc.Refine(ctx, req.Msg.SessionID, req.Msg.Instruction)
	if err != nil {
		return nil, rpcError(err)
	}
	if result == nil {
		// Blank instruction or nothing to refine.
		sess, getErr := h.svc.Get(req.Msg.SessionID)
		if getErr != nil {
			return nil, rpcError(getErr)
		}
		if current := sess.Result(); current != nil {
			return connect.NewResponse(h.toResponse(req.Msg.SessionID, current)), nil
		}
		return nil, connect.NewError(connect.CodeFailedPrecondition, session.ErrNoResult)
	}
	return connect.NewResponse(h.toResponse(req.Msg.SessionID, result)), nil
}

func (h *GenerationHandler) toResponse(sessionID string, result *generate.Result) *GenerationResponse {
	resp := &GenerationResponse{
		SessionID:   sessionID,
		Shape:       result.Code.Shape().String(),
		Suggestions: result.Suggestions,
		Narrative:   result.Narrative,
	}
	if resp.Suggestions == nil {
		resp.Suggestions = []string{}
	}
	switch result.Code.Shape() {
	case generate.ShapeDocument:
		resp.Document = result.Code.Document()
	case generate.ShapeFileList:
		resp.Files = result.Code.Files()
	}
	if sess, err := h.svc.Get(sessionID); err == nil {
		resp.View = string(sess.View())
		for _, m := range sess.History() {
			resp.History = append(resp.History, ChatMessage{Author: string(m.Author), Text: m.Text})
		}
	}
	if resp.History == nil {
		resp.History = []ChatMessage{}
	}
	return resp
}

// Handlers returns the connect routes to mount on the mux.
func (h *GenerationHandler) Handlers() map[string]http.Handler {
	codec := connect.WithCodec(jsonCodec{})
	return map[string]http.Handler{
		GenerateProcedure: connect.NewUnaryHandler(GenerateProcedure, h.Generate, codec),
		RefineProcedure:   connect.NewUnaryHandler(RefineProcedure, h.Refine, codec),
	}
}

// rpcError maps the generation error taxonomy onto connect codes.
func rpcError(err error) *connect.Error {
	switch {
	case errors.Is(err, session.ErrSessionNotFound):
		return connect.NewError(connect.CodeNotFound, err)
	case errors.Is(err, session.ErrNoResult),
		errors.Is(err, generate.ErrInputNotReady):
		return connect.NewError(connect.CodeFailedPrecondition, err)
	case errors.Is(err, session.ErrModelNotOffered):
		return connect.NewError(connect.CodeInvalidArgument, err)
	case errors.Is(err, generate.ErrEmptyResponse),
		errors.Is(err, generate.ErrMalformedEnvelope),
		errors.Is(err, generate.ErrSchemaViolation),
		errors.Is(err, generate.ErrUnexpectedShape):
		return connect.NewError(connect.CodeUnavailable, err)
	case errors.Is(err, context.Canceled):
		return connect.NewError(connect.CodeCanceled, err)
	case errors.Is(err, context.DeadlineExceeded):
		return connect.NewError(connect.CodeDeadlineExceeded, err)
	default:
		return connect.NewError(connect.CodeInternal, err)
	}
}
