package category_test

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"

	"github.com/frahmantamala/finance-tracker/internal/category"
	categoryPostgres "github.com/frahmantamala/finance-tracker/internal/category/postgres"
	budgetDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/budget"
	categoryDatamodel "github.com/frahmantamala/finance-tracker/internal/core/datamodel/category"
	"github.com/frahmantamala/finance-tracker/internal/testutil"
	"github.com/frahmantamala/finance-tracker/internal/transport"
	"github.com/frahmantamala/finance-tracker/pkg/logger"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
	"gorm.io/gorm"
)

var _ = Describe("Category Handler Integration", func() {
	var (
		db     *gorm.DB
		router *chi.Mux
	)

	BeforeEach(func() {
		var err error
		db, err = testutil.OpenSQLite()
		Expect(err).NotTo(HaveOccurred())

		repo := categoryPostgres.NewCategoryRepository(db)
		service := category.NewService(repo, logger.Discard())
		handler := category.NewHandler(transport.NewBaseHandler(logger.Discard(), false), service)

		router = chi.NewRouter()
		router.Get("/categories", handler.GetCategories)
		router.Post("/categories", handler.CreateCategory)
		router.Get("/categories/{id}", handler.GetCategory)
		router.Put("/categories/{id}", handler.UpdateCategory)
		router.Delete("/categories/{id}", handler.DeleteCategory)

		Expect(db.Create(&categoryDatamodel.Category{Name: "Transport"}).Error).To(Succeed())
		Expect(db.Create(&categoryDatamodel.Category{Name: "Food"}).Error).To(Succeed())
	})

	serve := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req.Header.Set("Content-Type", "application/json")
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("should list categories ordered by name", func() {
		w := serve(http.MethodGet, "/categories", "")

		Expect(w.Code).To(Equal(http.StatusOK))
		var response category.CategoriesResponse
		Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
		Expect(response.Categories).To(HaveLen(2))
		Expect(response.Categories[0].Name).To(Equal("Food"))
	})

	It("should create a category", func() {
		w := serve(http.MethodPost, "/categories", `{"name":"Health"}`)

		Expect(w.Code).To(Equal(http.StatusCreated))
		var response category.CategoryResponse
		Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
		Expect(response.ID).To(BeNumerically(">", 0))
		Expect(response.Name).To(Equal("Health"))
	})

	It("should answer 409 for a duplicate name regardless of case", func() {
		w := serve(http.MethodPost, "/categories", `{"name":"food"}`)
		Expect(w.Code).To(Equal(http.StatusConflict))
		Expect(w.Body.String()).To(ContainSubstring("DUPLICATE_CATEGORY"))
	})

	It("should answer 400 for a malformed body", func() {
		w := serve(http.MethodPost, "/categories", `{`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should answer 404 for an unknown id", func() {
		w := serve(http.MethodGet, "/categories/999", "")
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})

	It("should answer 400 for a non numeric id", func() {
		w := serve(http.MethodGet, "/categories/abc", "")
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should refuse to delete a category referenced by a budget", func() {
		var food categoryDatamodel.Category
		Expect(db.Where("name = ?", "Food").First(&food).Error).To(Succeed())
		Expect(db.Create(&budgetDatamodel.Budget{UserID: 1, CategoryID: food.ID, MonthlyBudget: 100}).Error).To(Succeed())

		w := serve(http.MethodDelete, "/categories/"+strconv.FormatInt(food.ID, 10), "")
		Expect(w.Code).To(Equal(http.StatusConflict))
	})

	It("should delete an unused category", func() {
		var transportCategory categoryDatamodel.Category
		Expect(db.Where("name = ?", "Transport").First(&transportCategory).Error).To(Succeed())

		w := serve(http.MethodDelete, "/categories/"+strconv.FormatInt(transportCategory.ID, 10), "")
		Expect(w.Code).To(Equal(http.StatusNoContent))
	})
})
