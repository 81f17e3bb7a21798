package handler

import (
	"github.com/gofiber/fiber/v2"
	"github.com/google/uuid"

	"mentorlink/internal/http/middleware"
	"mentorlink/internal/service"
)

type assignmentRequest struct {
	MentorID  string `json:"mentor_id"`
	StudentID string `json:"student_id"`
}

// CreateAssignment links a mentor to a student. Admin only.
func CreateAssignment(svc service.AssignmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		var req assignmentRequest
		if err := c.BodyParser(&req); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_BODY", "cannot parse request body")
		}

		a, err := svc.Assign(c.UserContext(), req.MentorID, req.StudentID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.Status(fiber.StatusCreated).JSON(a)
	}
}

// DeleteAssignment removes a mentor-student link by assignment ID. Admin only.
func DeleteAssignment(svc service.AssignmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		id := c.Params("id")
		if _, err := uuid.Parse(id); err != nil {
			return writeError(c, fiber.StatusBadRequest, "INVALID_ID", "invalid id format")
		}

		if err := svc.Unassign(c.UserContext(), id); err != nil {
			return writeServiceError(c, err)
		}
		return c.SendStatus(fiber.StatusNoContent)
	}
}

// ListAssignments returns a mentor's assignments with names hydrated. Admin
// only; the mentor_id query parameter is required.
func ListAssignments(svc service.AssignmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		mentorID := c.Query("mentor_id")
		if mentorID == "" {
			return writeError(c, fiber.StatusBadRequest, "MENTOR_ID_REQUIRED", "mentor_id is required")
		}

		list, err := svc.ListByMentor(c.UserContext(), mentorID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": list})
	}
}

// ListMyStudents returns the student accounts assigned to the calling mentor.
func ListMyStudents(svc service.AssignmentService) fiber.Handler {
	return func(c *fiber.Ctx) error {
		students, err := svc.Students(c.UserContext(), middleware.ViewerFromCtx(c).UserID)
		if err != nil {
			return writeServiceError(c, err)
		}
		return c.JSON(fiber.Map{"data": students})
	}
}
