package server

import (
	"encoding/json"
	"errors"
	"io"
	"mime/multipart"
	"strconv"

	"github.com/gofiber/fiber/v3"
	"go.uber.org/zap"

	"github.com/amith-0609/HackAnanta-Team-Terminators/internal/assistant"
	"github.com/amith-0609/HackAnanta-Team-Terminators/internal/jobs"
	"github.com/amith-0609/HackAnanta-Team-Terminators/internal/resume"
)

// resumeFields lists accepted multipart field names in lookup order.
var resumeFields = []string{"resume", "file"}

type interviewStartRequest struct {
	Role       string `json:"role"`
	Topic      string `json:"topic"`
	Difficulty string `json:"difficulty"`
}

type chatRequest struct {
	Message string           `json:"message"`
	History []assistant.Turn `json:"history"`
}

func (s *Server) health(c fiber.Ctx) error {
	return c.JSON(fiber.Map{
		"status":  "healthy",
		"service": serviceName,
	})
}

// searchJobs always answers 200. The pipeline itself falls back to sample
// postings when nothing live is available.
func (s *Server) searchJobs(c fiber.Ctx) error {
	q := jobs.SearchQuery{
		Query:    c.Query("query", jobs.DefaultQuery),
		Location: c.Query("location", jobs.DefaultLocation),
	}
	if raw := c.Query("results_wanted"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil {
			s.logger.Debug("ignoring invalid results_wanted", zap.String("value", raw))
		} else {
			q.ResultsWanted = n
		}
	}

	batch, outcome := s.jobs.Search(c.Context(), q)
	if batch == nil {
		batch = []jobs.Job{}
	}

	s.logger.Debug("jobs served",
		zap.String("query", q.Query),
		zap.String("outcome", string(outcome)),
		zap.Int("count", len(batch)),
	)

	return c.JSON(fiber.Map{
		"data":  batch,
		"count": len(batch),
	})
}

func (s *Server) parseResume(c fiber.Ctx) error {
	header, err := resumeUpload(c)
	if err != nil {
		return jsonError(c, fiber.StatusBadRequest, "No file uploaded. Use the 'resume' or 'file' form field.")
	}

	data, err := readUpload(header)
	if err != nil {
		s.logger.Warn("reading uploaded resume", zap.Error(err))
		return jsonError(c, fiber.StatusBadRequest, "Could not read uploaded file.")
	}

	result, err := resume.Parse(header.Filename, data)
	switch {
	case errors.Is(err, resume.ErrEmptyFile), errors.Is(err, resume.ErrNotPDF):
		return jsonError(c, fiber.StatusBadRequest, err.Error())
	case err != nil:
		s.logger.Error("parsing resume", zap.String("filename", header.Filename), zap.Error(err))
		return jsonError(c, fiber.StatusInternalServerError, "Failed to parse resume.")
	}

	s.logger.Info("resume parsed", zap.String("filename", header.Filename), zap.Int("skills", len(result.Skills)))

	return c.JSON(result)
}

func resumeUpload(c fiber.Ctx) (*multipart.FileHeader, error) {
	var lastErr error
	for _, field := range resumeFields {
		header, err := c.FormFile(field)
		if err == nil {
			return header, nil
		}
		lastErr = err
	}
	return nil, lastErr
}

func readUpload(header *multipart.FileHeader) ([]byte, error) {
	f, err := header.Open()
	if err != nil {
		return nil, err
	}
	defer f.Close()

	return io.ReadAll(f)
}

func (s *Server) interviewStart(c fiber.Ctx) error {
	var body interviewStartRequest
	if err := decodeOptional(c, &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid JSON body")
	}

	return jsonMessage(c, s.assistant.InterviewStart(c.Context(), body.Role, body.Topic, body.Difficulty))
}

func (s *Server) interviewChat(c fiber.Ctx) error {
	var body chatRequest
	if err := decodeOptional(c, &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid JSON body")
	}

	return jsonMessage(c, s.assistant.InterviewChat(c.Context(), body.Message, body.History))
}

func (s *Server) chat(c fiber.Ctx) error {
	var body chatRequest
	if err := decodeOptional(c, &body); err != nil {
		return jsonError(c, fiber.StatusBadRequest, "invalid JSON body")
	}

	return jsonMessage(c, s.assistant.Chat(c.Context(), body.Message, body.History))
}

// decodeOptional treats an empty body as an empty request.
func decodeOptional(c fiber.Ctx, v any) error {
	raw := c.Body()
	if len(raw) == 0 {
		return nil
	}
	return json.Unmarshal(raw, v)
}
