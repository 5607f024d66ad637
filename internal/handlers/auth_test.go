package handlers

import (
	"context"
	"net/http"

	"github.com/hsmith-dev/Trasker-WebApp/internal/dto"
	apierrors "github.com/hsmith-dev/Trasker-WebApp/internal/errors"
	"github.com/hsmith-dev/Trasker-WebApp/internal/testutil"
)

func (suite *APITestSuite) TestLogin_EstablishesDefaultTeam() {
	c := suite.anonymous()
	w := c.do(http.MethodPost, "/api/auth/login", map[string]string{
		"username": "alice",
		"password": testutil.Password,
	})
	suite.Require().Equal(http.StatusOK, w.Code)

	resp := decode[dto.SessionDTO](suite.T(), w)
	suite.Equal("alice", resp.User.Username)
	suite.Require().NotNil(resp.ActiveTeam)
	suite.Equal(suite.team.ID, resp.ActiveTeam.ID)
}

func (suite *APITestSuite) TestLogin_WithoutTeam() {
	w := suite.login("carol").do(http.MethodGet, "/api/auth/me", nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	resp := decode[dto.SessionDTO](suite.T(), w)
	suite.Equal("carol", resp.User.Username)
	suite.Nil(resp.ActiveTeam)
}

func (suite *APITestSuite) TestLogin_InvalidCredentials() {
	tests := []struct {
		name     string
		username string
		password string
	}{
		{"wrong password", "alice", "wrong-password"},
		{"unknown user", "mallory", testutil.Password},
	}

	for _, tt := range tests {
		suite.Run(tt.name, func() {
			w := suite.anonymous().do(http.MethodPost, "/api/auth/login", map[string]string{
				"username": tt.username,
				"password": tt.password,
			})
			suite.Equal(http.StatusUnauthorized, w.Code)
			suite.Equal(apierrors.ErrCodeInvalidCredentials, errorCode(suite.T(), w))
		})
	}
}

func (suite *APITestSuite) TestLogin_MissingFields() {
	w := suite.anonymous().do(http.MethodPost, "/api/auth/login", map[string]string{"username": "alice"})
	suite.Equal(http.StatusBadRequest, w.Code)
}

func (suite *APITestSuite) TestProtectedRoutes_RequireSession() {
	w := suite.anonymous().do(http.MethodGet, "/api/tasks", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
	suite.Equal(apierrors.ErrCodeUnauthorized, errorCode(suite.T(), w))
}

func (suite *APITestSuite) TestLogout_ClearsSession() {
	c := suite.login("alice")
	suite.Require().Equal(http.StatusOK, c.do(http.MethodPost, "/api/auth/logout", nil).Code)

	w := c.do(http.MethodGet, "/api/auth/me", nil)
	suite.Equal(http.StatusUnauthorized, w.Code)
}

func (suite *APITestSuite) TestListTeams() {
	other := testutil.CreateTeam(suite.T(), suite.db, "design")
	testutil.AddMember(suite.T(), suite.db, other.ID, suite.alice.ID)

	w := suite.login("alice").do(http.MethodGet, "/api/teams", nil)
	suite.Require().Equal(http.StatusOK, w.Code)

	resp := decode[dto.TeamListResponse](suite.T(), w)
	suite.Require().Len(resp.Teams, 2)
	suite.Equal("platform", resp.Teams[0].Name)
	suite.Equal("design", resp.Teams[1].Name)
	suite.Require().NotNil(resp.ActiveTeamID)
	suite.Equal(suite.team.ID, *resp.ActiveTeamID)
}

func (suite *APITestSuite) TestSwitchTeam_PersistsInSession() {
	other := testutil.CreateTeam(suite.T(), suite.db, "design")
	testutil.AddMember(suite.T(), suite.db, other.ID, suite.alice.ID)

	c := suite.login("alice")
	w := c.do(http.MethodPut, "/api/context/team", map[string]uint64{"team_id": other.ID})
	suite.Require().Equal(http.StatusOK, w.Code)
	switched := decode[dto.SessionDTO](suite.T(), w)
	suite.Require().NotNil(switched.ActiveTeam)
	suite.Equal(other.ID, switched.ActiveTeam.ID)

	me := decode[dto.SessionDTO](suite.T(), c.do(http.MethodGet, "/api/auth/me", nil))
	suite.Require().NotNil(me.ActiveTeam)
	suite.Equal(other.ID, me.ActiveTeam.ID)
}

func (suite *APITestSuite) TestSwitchTeam_NotAMember() {
	other := testutil.CreateTeam(suite.T(), suite.db, "design")

	c := suite.login("alice")
	w := c.do(http.MethodPut, "/api/context/team", map[string]uint64{"team_id": other.ID})
	suite.Equal(http.StatusForbidden, w.Code)
	suite.Equal(apierrors.ErrCodeNotAMember, errorCode(suite.T(), w))

	me := decode[dto.SessionDTO](suite.T(), c.do(http.MethodGet, "/api/auth/me", nil))
	suite.Require().NotNil(me.ActiveTeam)
	suite.Equal(suite.team.ID, me.ActiveTeam.ID)
}

func (suite *APITestSuite) TestSession_DropsTeamAfterRemoval() {
	c := suite.login("bob")
	suite.Require().NoError(suite.app.Admin.RemoveMember(context.Background(), suite.team.ID, suite.bob.ID))

	me := decode[dto.SessionDTO](suite.T(), c.do(http.MethodGet, "/api/auth/me", nil))
	suite.Nil(me.ActiveTeam)
}

func (suite *APITestSuite) TestHealth() {
	w := suite.anonymous().do(http.MethodGet, "/health", nil)
	suite.Equal(http.StatusOK, w.Code)
}
