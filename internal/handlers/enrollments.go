package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/codeshelf/coinledger/internal/handlers/render"
	"github.com/codeshelf/coinledger/internal/handlers/userctx"
	"github.com/codeshelf/coinledger/internal/logger"
)

func handleEnroll(enrollmentService enrollmentService, l logger.Logger) http.Handler {
	type response struct {
		Success  bool   `json:"success"`
		Message  string `json:"message"`
		Coins    int64  `json:"coins"`
		CourseID int64  `json:"courseId"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.Fail(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		courseID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			render.Fail(w, "Invalid course id", http.StatusBadRequest)
			return
		}

		result, err := enrollmentService.Enroll(r.Context(), user.ID, courseID)
		if err != nil {
			failFromError(w, err, l)
			return
		}

		render.JSON(w, response{
			Success:  true,
			Message:  "Enrolled successfully",
			Coins:    result.CoinsRemaining,
			CourseID: result.CourseID,
		})
	})
}

func handleMyCourses(enrollmentService enrollmentService, l logger.Logger) http.Handler {
	type enrollmentItem struct {
		CourseID   int64     `json:"courseId"`
		EnrolledAt time.Time `json:"enrolledAt"`
		Price      int64     `json:"price"`
		Status     string    `json:"status"`
		Progress   int32     `json:"progress"`
	}

	type response struct {
		Success     bool             `json:"success"`
		Enrollments []enrollmentItem `json:"enrollments"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.Fail(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		enrollments, err := enrollmentService.ListEnrollments(r.Context(), user.ID)
		if err != nil {
			failFromError(w, err, l)
			return
		}

		items := make([]enrollmentItem, 0, len(enrollments))
		for _, e := range enrollments {
			items = append(items, enrollmentItem{
				CourseID:   e.CourseID,
				EnrolledAt: e.EnrolledAt,
				Price:      e.Price,
				Status:     e.Status,
				Progress:   e.Progress,
			})
		}

		render.JSON(w, response{Success: true, Enrollments: items})
	})
}

func handleEnrollmentStatus(enrollmentService enrollmentService, l logger.Logger) http.Handler {
	type response struct {
		Success    bool  `json:"success"`
		IsEnrolled bool  `json:"isEnrolled"`
		CourseID   int64 `json:"courseId"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		user, ok := userctx.FromContext(r.Context())
		if !ok {
			render.Fail(w, "Internal server error", http.StatusInternalServerError)
			return
		}

		courseID, err := strconv.ParseInt(r.PathValue("courseId"), 10, 64)
		if err != nil {
			render.Fail(w, "Invalid course id", http.StatusBadRequest)
			return
		}

		enrolled, err := enrollmentService.IsEnrolled(r.Context(), user.ID, courseID)
		if err != nil {
			failFromError(w, err, l)
			return
		}

		render.JSON(w, response{Success: true, IsEnrolled: enrolled, CourseID: courseID})
	})
}
