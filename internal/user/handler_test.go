package user_test

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strconv"
	"strings"

	"github.com/frahmantamala/finance-tracker/internal"
	"github.com/frahmantamala/finance-tracker/internal/transport"
	"github.com/frahmantamala/finance-tracker/internal/user"
	"github.com/frahmantamala/finance-tracker/pkg/logger"
	"github.com/go-chi/chi"
	. "github.com/onsi/ginkgo/v2"
	. "github.com/onsi/gomega"
)

var _ = Describe("User Handler", func() {
	var (
		service *user.Service
		router  *chi.Mux
		ana     *user.User
	)

	BeforeEach(func() {
		service = newService()
		handler := user.NewHandler(transport.NewBaseHandler(logger.Discard(), false), service)

		router = chi.NewRouter()
		router.Get("/users/me", handler.GetCurrentUser)
		router.Put("/users/me", handler.UpdateCurrentUser)
		router.Put("/users/me/password", handler.ChangePassword)
		router.Post("/users/me/sub-accounts", handler.CreateSubAccount)
		router.Get("/users/me/sub-accounts", handler.ListSubAccounts)
		router.Get("/users", handler.ListUsers)
		router.Delete("/users/{id}", handler.DeleteUser)

		var err error
		ana, err = service.Create(context.Background(), user.CreateUserDTO{Name: "Ana", Email: "ana@example.com", Password: "secret1"})
		Expect(err).NotTo(HaveOccurred())
	})

	serve := func(method, path, body string) *httptest.ResponseRecorder {
		req := httptest.NewRequest(method, path, strings.NewReader(body))
		req = req.WithContext(internal.ContextWithUser(req.Context(), ana.Principal()))
		w := httptest.NewRecorder()
		router.ServeHTTP(w, req)
		return w
	}

	It("should return the current user without the password hash", func() {
		w := serve(http.MethodGet, "/users/me", "")

		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).NotTo(ContainSubstring("password"))
		var response user.UserResponse
		Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
		Expect(response.Email).To(Equal("ana@example.com"))
	})

	It("should update the profile", func() {
		w := serve(http.MethodPut, "/users/me", `{"name":"Ana Maria","email":"ana@example.com"}`)
		Expect(w.Code).To(Equal(http.StatusOK))
		Expect(w.Body.String()).To(ContainSubstring("Ana Maria"))
	})

	It("should answer 400 with field details on invalid input", func() {
		w := serve(http.MethodPut, "/users/me", `{"name":"","email":"x"}`)
		Expect(w.Code).To(Equal(http.StatusBadRequest))
		Expect(w.Body.String()).To(ContainSubstring(`"field":"name"`))
	})

	It("should create and list sub-accounts", func() {
		w := serve(http.MethodPost, "/users/me/sub-accounts", `{"name":"Kid","email":"kid@example.com","password":"secret1"}`)
		Expect(w.Code).To(Equal(http.StatusCreated))

		w = serve(http.MethodGet, "/users/me/sub-accounts", "")
		var response user.UsersResponse
		Expect(json.NewDecoder(w.Body).Decode(&response)).To(Succeed())
		Expect(response.Users).To(HaveLen(1))
		Expect(response.Users[0].ParentUserID).To(HaveValue(Equal(ana.ID)))
	})

	It("should answer 204 on password change", func() {
		w := serve(http.MethodPut, "/users/me/password", `{"current_password":"secret1","new_password":"another1"}`)
		Expect(w.Code).To(Equal(http.StatusNoContent))
	})

	It("should refuse self deletion", func() {
		w := serve(http.MethodDelete, "/users/"+strconv.FormatInt(ana.ID, 10), "")
		Expect(w.Code).To(Equal(http.StatusBadRequest))
	})

	It("should answer 404 when deleting an unknown user", func() {
		w := serve(http.MethodDelete, "/users/999", "")
		Expect(w.Code).To(Equal(http.StatusNotFound))
	})
})
