package rest

import (
	"net/http"

	"github.com/krsnavtr-code/Pass-Manager/internal/common"
	"github.com/krsnavtr-code/Pass-Manager/internal/server/models"
	"github.com/krsnavtr-code/Pass-Manager/internal/server/services"
	"github.com/labstack/echo/v4"
)

func (s *RESTServer) root(c echo.Context) error {
	return c.JSON(http.StatusOK, map[string]string{"message": "Password Manager API is running..."})
}

func (s *RESTServer) health(c echo.Context) error {
	if s.ping != nil {
		if err := s.ping(c.Request().Context()); err != nil {
			s.logger.Error(c.Request().Context(), "health check failed", "error", err)
			return c.JSON(http.StatusServiceUnavailable, messageResponse{Success: false, Message: "Database unavailable"})
		}
	}
	return c.JSON(http.StatusOK, healthResponse{Success: true, Status: "OK"})
}

func (s *RESTServer) register(c echo.Context) error {
	var req registerRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	result, err := s.users.Register(c.Request().Context(), services.RegisterInput{
		Name:            req.Name,
		Email:           req.Email,
		Password:        req.Password,
		ConfirmPassword: req.ConfirmPassword,
		MasterPassword:  req.MasterPassword,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, toAuthResponse(result))
}

func (s *RESTServer) login(c echo.Context) error {
	var req loginRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	result, err := s.users.Login(c.Request().Context(), req.Email, req.Password)
	if err != nil {
		return err
	}

	return c.JSON(http.StatusOK, toAuthResponse(result))
}

func toAuthResponse(r *services.AuthResult) authResponse {
	return authResponse{
		Success:   true,
		Token:     r.Token,
		SessionID: r.Session.ID,
		User:      userSummary{ID: r.User.ID, Name: r.User.Name, Email: r.User.Email},
	}
}

func (s *RESTServer) verifyMaster(c echo.Context) error {
	var req masterPasswordRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	ok, err := s.users.VerifyMasterPassword(c.Request().Context(), currentUserID(c), req.MasterPassword)
	if err != nil {
		return err
	}
	if !ok {
		return c.JSON(http.StatusUnauthorized, messageResponse{Success: false, Message: "Invalid master password"})
	}

	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Master password verified"})
}

func (s *RESTServer) validateSession(c echo.Context) error {
	st, err := s.sessions.Validate(c.Request().Context(), currentUserID(c))
	if err != nil {
		return err
	}

	resp := sessionResponse{Success: true}
	resp.Data.Session = sessionView{
		ID:            st.Session.ID,
		LoginTime:     st.Session.LoginTime,
		ExpiryTime:    st.Session.ExpiryTime,
		TimeRemaining: st.TimeRemaining.Milliseconds(),
	}
	return c.JSON(http.StatusOK, resp)
}

func (s *RESTServer) profile(c echo.Context) error {
	u, err := s.users.Profile(c.Request().Context(), currentUserID(c))
	if err != nil {
		return err
	}

	resp := profileResponse{Success: true}
	resp.Data.User = profileView{ID: u.ID, Name: u.Name, Email: u.Email, CreatedAt: u.CreatedAt}
	return c.JSON(http.StatusOK, resp)
}

func (s *RESTServer) listPasswords(c echo.Context) error {
	filter := models.EntryFilter{
		Category: models.Category(c.QueryParam("category")),
		Search:   c.QueryParam("search"),
	}

	list, err := s.entries.List(c.Request().Context(), currentUserID(c), filter)
	if err != nil {
		return err
	}

	views := make([]entryView, 0, len(list))
	for _, e := range list {
		views = append(views, toEntryView(e))
	}
	return c.JSON(http.StatusOK, listResponse{Success: true, Count: len(views), Passwords: views})
}

func (s *RESTServer) createPassword(c echo.Context) error {
	var req createEntryRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	e, err := s.entries.Create(c.Request().Context(), currentUserID(c), services.CreateEntryInput{
		Website:        req.Website,
		Username:       req.Username,
		Password:       req.Password,
		MasterPassword: req.MasterPassword,
		Category:       models.Category(req.Category),
		Notes:          req.Notes,
		URL:            req.URL,
		Tags:           req.Tags,
		IsFavorite:     req.IsFavorite,
	})
	if err != nil {
		return err
	}

	return c.JSON(http.StatusCreated, entryResponse{Success: true, Password: toEntryView(e)})
}

func (s *RESTServer) getPassword(c echo.Context) error {
	e, err := s.entries.Get(c.Request().Context(), currentUserID(c), c.Param("id"))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entryResponse{Success: true, Password: toEntryView(e)})
}

func (s *RESTServer) updatePassword(c echo.Context) error {
	var req updateEntryRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	in := services.UpdateEntryInput{
		Website:        req.Website,
		Username:       req.Username,
		Password:       req.Password,
		MasterPassword: req.MasterPassword,
		Notes:          req.Notes,
		URL:            req.URL,
		IsFavorite:     req.IsFavorite,
	}
	if req.Category != nil {
		cat := models.Category(*req.Category)
		in.Category = &cat
	}
	if req.Tags != nil {
		in.Tags, in.TagsSet = *req.Tags, true
	}

	e, err := s.entries.Update(c.Request().Context(), currentUserID(c), c.Param("id"), in)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, entryResponse{Success: true, Password: toEntryView(e)})
}

func (s *RESTServer) deletePassword(c echo.Context) error {
	if err := s.entries.Delete(c.Request().Context(), currentUserID(c), c.Param("id")); err != nil {
		return err
	}
	return c.JSON(http.StatusOK, messageResponse{Success: true, Message: "Password deleted successfully"})
}

func (s *RESTServer) decryptPassword(c echo.Context) error {
	var req masterPasswordRequest
	if err := c.Bind(&req); err != nil {
		return err
	}

	plaintext, err := s.entries.Decrypt(c.Request().Context(), currentUserID(c), c.Param("id"), req.MasterPassword)
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, decryptResponse{Success: true, Password: plaintext})
}

func (s *RESTServer) exportPasswords(c echo.Context) error {
	if s.export == nil {
		return common.NewError(common.ErrExportDisabled, "Export is not configured")
	}

	res, err := s.export.Export(c.Request().Context(), currentUserID(c))
	if err != nil {
		return err
	}
	return c.JSON(http.StatusOK, exportResponse{Success: true, Key: res.Key, URL: res.URL, Count: res.Count})
}
