package server

import (
	"github.com/gofiber/fiber/v3/middleware/adaptor"
)

// routes registers the endpoints. Search and chat always answer 200, so only
// the resume upload sits behind the per-IP limiter.
func (s *Server) routes() {
	s.App.Get("/health", s.health)

	if s.metrics != nil {
		s.App.Get("/metrics", adaptor.HTTPHandler(s.metrics))
	}

	api := s.App.Group("/api")
	api.Get("/jobs", s.searchJobs)
	api.Post("/parse-resume", s.rateLimit(), s.parseResume)
	api.Post("/interview/start", s.interviewStart)
	api.Post("/interview/chat", s.interviewChat)
	api.Post("/chat", s.chat)
}
