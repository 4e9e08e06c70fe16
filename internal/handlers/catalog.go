package handlers

import (
	"net/http"
	"strconv"
	"time"

	"github.com/shopspring/decimal"

	"github.com/codeshelf/coinledger/internal/handlers/render"
	"github.com/codeshelf/coinledger/internal/logger"
	"github.com/codeshelf/coinledger/internal/models"
	"github.com/codeshelf/coinledger/internal/service/catalog"
)

type courseItem struct {
	ID              int64           `json:"id"`
	CreatedAt       time.Time       `json:"createdAt"`
	Title           string          `json:"title"`
	Description     string          `json:"description"`
	PriceCoins      int64           `json:"priceCoins"`
	PriceFiat       decimal.Decimal `json:"priceFiat"`
	CategoryID      *int64          `json:"categoryId,omitempty"`
	EnrollmentCount int64           `json:"enrollmentCount"`
}

func toCourseItem(c models.Course) courseItem {
	return courseItem(c)
}

func handleCreateCourse(catalogService catalogService, l logger.Logger) http.Handler {
	type request struct {
		Title       string          `json:"title" validate:"required,min=2,max=200"`
		Description string          `json:"description"`
		PriceCoins  int64           `json:"priceCoins"`
		PriceFiat   decimal.Decimal `json:"priceFiat"`
		CategoryID  *int64          `json:"categoryId"`
	}

	type response struct {
		Success bool       `json:"success"`
		Course  courseItem `json:"course"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		course, err := catalogService.CreateCourse(r.Context(), catalog.CreateCourseParams{
			Title:       data.Title,
			Description: data.Description,
			PriceCoins:  data.PriceCoins,
			PriceFiat:   data.PriceFiat,
			CategoryID:  data.CategoryID,
		})
		if err != nil {
			failFromError(w, err, l)
			return
		}

		render.JSON(w, response{Success: true, Course: toCourseItem(course)})
	})
}

func handleGetCourse(catalogService catalogService, l logger.Logger) http.Handler {
	type response struct {
		Success bool       `json:"success"`
		Course  courseItem `json:"course"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		courseID, err := strconv.ParseInt(r.PathValue("id"), 10, 64)
		if err != nil {
			render.Fail(w, "Invalid course id", http.StatusBadRequest)
			return
		}

		course, err := catalogService.GetCourse(r.Context(), courseID)
		if err != nil {
			failFromError(w, err, l)
			return
		}

		render.JSON(w, response{Success: true, Course: toCourseItem(course)})
	})
}

func handleListCourses(catalogService catalogService, l logger.Logger) http.Handler {
	type response struct {
		Success bool         `json:"success"`
		Courses []courseItem `json:"courses"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		courses, err := catalogService.ListCourses(r.Context())
		if err != nil {
			failFromError(w, err, l)
			return
		}

		items := make([]courseItem, 0, len(courses))
		for _, c := range courses {
			items = append(items, toCourseItem(c))
		}

		render.JSON(w, response{Success: true, Courses: items})
	})
}

type productItem struct {
	ID          int64           `json:"id"`
	CreatedAt   time.Time       `json:"createdAt"`
	Name        string          `json:"name"`
	Description string          `json:"description"`
	PriceFiat   decimal.Decimal `json:"priceFiat"`
	CategoryID  *int64          `json:"categoryId,omitempty"`
}

func handleCreateProduct(catalogService catalogService, l logger.Logger) http.Handler {
	type request struct {
		Name        string          `json:"name" validate:"required,min=2,max=200"`
		Description string          `json:"description"`
		PriceFiat   decimal.Decimal `json:"priceFiat"`
		CategoryID  *int64          `json:"categoryId"`
	}

	type response struct {
		Success bool        `json:"success"`
		Product productItem `json:"product"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		product, err := catalogService.CreateProduct(r.Context(), catalog.CreateProductParams{
			Name:        data.Name,
			Description: data.Description,
			PriceFiat:   data.PriceFiat,
			CategoryID:  data.CategoryID,
		})
		if err != nil {
			failFromError(w, err, l)
			return
		}

		render.JSON(w, response{Success: true, Product: productItem(product)})
	})
}

func handleListProducts(catalogService catalogService, l logger.Logger) http.Handler {
	type response struct {
		Success  bool          `json:"success"`
		Products []productItem `json:"products"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		products, err := catalogService.ListProducts(r.Context())
		if err != nil {
			failFromError(w, err, l)
			return
		}

		items := make([]productItem, 0, len(products))
		for _, p := range products {
			items = append(items, productItem(p))
		}

		render.JSON(w, response{Success: true, Products: items})
	})
}

type categoryItem struct {
	ID        int64     `json:"id"`
	CreatedAt time.Time `json:"createdAt"`
	Name      string    `json:"name"`
}

func handleCreateCategory(catalogService catalogService, l logger.Logger) http.Handler {
	type request struct {
		Name string `json:"name" validate:"required,min=2,max=100"`
	}

	type response struct {
		Success  bool         `json:"success"`
		Category categoryItem `json:"category"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, err := render.BindAndValidate[request](w, r)
		if err != nil {
			return
		}

		category, err := catalogService.CreateCategory(r.Context(), data.Name)
		if err != nil {
			failFromError(w, err, l)
			return
		}

		render.JSON(w, response{Success: true, Category: categoryItem(category)})
	})
}

func handleListCategories(catalogService catalogService, l logger.Logger) http.Handler {
	type response struct {
		Success    bool           `json:"success"`
		Categories []categoryItem `json:"categories"`
	}

	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		categories, err := catalogService.ListCategories(r.Context())
		if err != nil {
			failFromError(w, err, l)
			return
		}

		items := make([]categoryItem, 0, len(categories))
		for _, c := range categories {
			items = append(items, categoryItem(c))
		}

		render.JSON(w, response{Success: true, Categories: items})
	})
}
