package repositories

import (
	"context"
	"errors"
	"fmt"
	"regexp"
	"strings"
	"testing"
	"time"

	"crmneon/internal/entities"
	"crmneon/internal/models"

	pgxmock "github.com/pashagolub/pgxmock/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
)

type RecordRepoTestSuite struct {
	suite.Suite
	mock     pgxmock.PgxPoolIface
	repo     RecordRepository
	tenantID int64
	now      time.Time
	context  context.Context
}

func (suite *RecordRepoTestSuite) SetupTest() {
	mock, err := pgxmock.NewPool()
	require.NoError(suite.T(), err)
	suite.mock = mock

	suite.repo = NewRecordRepo(mock)
	suite.tenantID = 7
	suite.now = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	suite.context = context.Background()
}

func (suite *RecordRepoTestSuite) TearDownTest() {
	assert.NoError(suite.T(), suite.mock.ExpectationsWereMet())
	suite.mock.Close()
}

func TestRecordRepoTestSuite(t *testing.T) {
	suite.Run(t, new(RecordRepoTestSuite))
}

func accountColumns() string {
	return strings.Join(entities.Describe(entities.Accounts).Columns, ", ")
}

func (suite *RecordRepoTestSuite) accountRows() *pgxmock.Rows {
	return pgxmock.NewRows(entities.Describe(entities.Accounts).Columns)
}

func (suite *RecordRepoTestSuite) addAccount(rows *pgxmock.Rows, id int64, name string) *pgxmock.Rows {
	return rows.AddRow(
		id, suite.tenantID, name, models.AccountTypeCustomer,
		nil, nil, nil, nil, nil, nil, nil, nil, nil,
		models.AccountStatusActive, suite.now, suite.now,
	)
}

func (suite *RecordRepoTestSuite) expectTenantContext() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(regexp.QuoteMeta(setTenantSQL)).
		WithArgs(fmt.Sprint(suite.tenantID)).
		WillReturnResult(pgxmock.NewResult("SELECT", 1))
}

func anyArgs(n int) []any {
	args := make([]any, n)
	for i := range args {
		args[i] = pgxmock.AnyArg()
	}
	return args
}

func (suite *RecordRepoTestSuite) TestList_Success() {
	suite.expectTenantContext()
	suite.mock.ExpectQuery(regexp.QuoteMeta("SELECT " + accountColumns() + " FROM accounts WHERE tenant_id = $1 ORDER BY id")).
		WithArgs(suite.tenantID).
		WillReturnRows(suite.addAccount(suite.addAccount(suite.accountRows(), 1, "Acme"), 2, "Globex"))
	suite.mock.ExpectCommit()

	records, err := suite.repo.List(suite.context, "accounts", suite.tenantID)
	require.NoError(suite.T(), err)
	require.Len(suite.T(), records, 2)

	first, ok := records[0].(*models.Account)
	require.True(suite.T(), ok)
	assert.Equal(suite.T(), int64(1), first.ID)
	assert.Equal(suite.T(), "Acme", first.Name)
	assert.Equal(suite.T(), suite.tenantID, first.TenantID)
}

func (suite *RecordRepoTestSuite) TestList_EmptyIsNotNil() {
	suite.expectTenantContext()
	suite.mock.ExpectQuery("SELECT .* FROM accounts").
		WithArgs(suite.tenantID).
		WillReturnRows(suite.accountRows())
	suite.mock.ExpectCommit()

	records, err := suite.repo.List(suite.context, "accounts", suite.tenantID)
	require.NoError(suite.T(), err)
	assert.NotNil(suite.T(), records)
	assert.Empty(suite.T(), records)
}

func (suite *RecordRepoTestSuite) TestList_UnknownEntityTouchesNothing() {
	_, err := suite.repo.List(suite.context, "widgets", suite.tenantID)
	assert.ErrorIs(suite.T(), err, ErrEntityNotFound)
}

func (suite *RecordRepoTestSuite) TestList_InvalidTenantTouchesNothing() {
	_, err := suite.repo.List(suite.context, "accounts", 0)
	assert.ErrorIs(suite.T(), err, ErrInvalidTenant)
}

func (suite *RecordRepoTestSuite) TestList_SetTenantFailureRollsBack() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectExec(regexp.QuoteMeta(setTenantSQL)).
		WithArgs("7").
		WillReturnError(errors.New("connection reset"))
	suite.mock.ExpectRollback()

	_, err := suite.repo.List(suite.context, "accounts", suite.tenantID)
	assert.ErrorContains(suite.T(), err, "failed to set tenant context")
}

func (suite *RecordRepoTestSuite) TestGetByID_Success() {
	suite.expectTenantContext()
	suite.mock.ExpectQuery(regexp.QuoteMeta("SELECT " + accountColumns() + " FROM accounts WHERE id = $1 AND tenant_id = $2 LIMIT 1")).
		WithArgs(int64(5), suite.tenantID).
		WillReturnRows(suite.addAccount(suite.accountRows(), 5, "Acme"))
	suite.mock.ExpectCommit()

	record, err := suite.repo.GetByID(suite.context, "accounts", 5, suite.tenantID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(5), record.(*models.Account).ID)
}

func (suite *RecordRepoTestSuite) TestGetByID_OtherTenantIsNotFound() {
	suite.expectTenantContext()
	suite.mock.ExpectQuery("SELECT .* FROM accounts WHERE id = \\$1 AND tenant_id = \\$2 LIMIT 1").
		WithArgs(int64(42), suite.tenantID).
		WillReturnRows(suite.accountRows())
	suite.mock.ExpectRollback()

	_, err := suite.repo.GetByID(suite.context, "accounts", 42, suite.tenantID)

	var notFound *RecordNotFoundError
	require.ErrorAs(suite.T(), err, &notFound)
	assert.Equal(suite.T(), "account", notFound.Entity)
	assert.Equal(suite.T(), int64(42), notFound.ID)
}

func (suite *RecordRepoTestSuite) TestCreate_ForgedTenantIsOverwritten() {
	suite.expectTenantContext()
	insert := "INSERT INTO accounts (tenant_id, name, type, industry, website, phone, address_line1, address_line2, city, state, zip_code, country, status) " +
		"VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13) RETURNING " + accountColumns()
	args := append([]any{suite.tenantID, "Acme", models.AccountTypeProspect}, anyArgs(10)...)
	suite.mock.ExpectQuery(regexp.QuoteMeta(insert)).
		WithArgs(args...).
		WillReturnRows(suite.addAccount(suite.accountRows(), 11, "Acme"))
	suite.mock.ExpectCommit()

	record, err := suite.repo.Create(suite.context, "accounts", []byte(`{"name":"Acme","tenantId":999}`), suite.tenantID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.tenantID, record.(*models.Account).TenantID)
}

func (suite *RecordRepoTestSuite) TestCreate_NonNumericForgedTenantIsOverwritten() {
	for _, forged := range []string{`"4"`, `"evil"`, `{"x":1}`} {
		suite.expectTenantContext()
		suite.mock.ExpectQuery("INSERT INTO accounts").
			WithArgs(append([]any{suite.tenantID, "Acme", models.AccountTypeProspect}, anyArgs(10)...)...).
			WillReturnRows(suite.addAccount(suite.accountRows(), 11, "Acme"))
		suite.mock.ExpectCommit()

		record, err := suite.repo.Create(suite.context, "accounts", []byte(`{"name":"Acme","tenantId":`+forged+`}`), suite.tenantID)
		require.NoError(suite.T(), err, forged)
		assert.Equal(suite.T(), suite.tenantID, record.(*models.Account).TenantID)
	}
}

func (suite *RecordRepoTestSuite) TestCreate_ValidationFailureDoesNotInsert() {
	_, err := suite.repo.Create(suite.context, "accounts", []byte(`{"type":"prospect"}`), suite.tenantID)

	var vErr *models.ValidationError
	require.ErrorAs(suite.T(), err, &vErr)
	assert.Equal(suite.T(), "name", vErr.Issues[0].Field)
}

func (suite *RecordRepoTestSuite) TestCreateRoot_Tenant() {
	suite.mock.ExpectBegin()
	suite.mock.ExpectQuery(regexp.QuoteMeta("INSERT INTO tenants (name, slug) VALUES ($1, $2) RETURNING id, name, slug, created_at, updated_at")).
		WithArgs("Acme", "acme").
		WillReturnRows(pgxmock.NewRows([]string{"id", "name", "slug", "created_at", "updated_at"}).
			AddRow(int64(3), "Acme", "acme", suite.now, suite.now))
	suite.mock.ExpectCommit()

	record, err := suite.repo.CreateRoot(suite.context, "tenants", []byte(`{"name":"Acme","slug":"acme"}`))
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(3), record.(*models.Tenant).ID)
}

func (suite *RecordRepoTestSuite) TestCreateRoot_RejectsTenantScopedEntity() {
	_, err := suite.repo.CreateRoot(suite.context, "users", []byte(`{}`))
	assert.ErrorIs(suite.T(), err, ErrNotRootEntity)
}

func (suite *RecordRepoTestSuite) TestUpdate_StripsIDAndTenant() {
	suite.expectTenantContext()
	update := "UPDATE accounts SET name = $1, updated_at = NOW() WHERE id = $2 AND tenant_id = $3 RETURNING " + accountColumns()
	suite.mock.ExpectQuery(regexp.QuoteMeta(update)).
		WithArgs("Renamed", int64(5), suite.tenantID).
		WillReturnRows(suite.addAccount(suite.accountRows(), 5, "Renamed"))
	suite.mock.ExpectCommit()

	record, err := suite.repo.Update(suite.context, "accounts", 5, []byte(`{"id":99,"tenantId":2,"name":"Renamed"}`), suite.tenantID)
	require.NoError(suite.T(), err)

	account := record.(*models.Account)
	assert.Equal(suite.T(), int64(5), account.ID)
	assert.Equal(suite.T(), suite.tenantID, account.TenantID)
	assert.Equal(suite.T(), "Renamed", account.Name)
}

func (suite *RecordRepoTestSuite) TestUpdate_MissingRowIsNotFound() {
	suite.expectTenantContext()
	suite.mock.ExpectQuery("UPDATE accounts SET status = \\$1").
		WithArgs(models.AccountStatusInactive, int64(8), suite.tenantID).
		WillReturnRows(suite.accountRows())
	suite.mock.ExpectRollback()

	_, err := suite.repo.Update(suite.context, "accounts", 8, []byte(`{"status":"inactive"}`), suite.tenantID)

	var notFound *RecordNotFoundError
	assert.ErrorAs(suite.T(), err, &notFound)
}

func (suite *RecordRepoTestSuite) TestUpdate_EmptyPatchWithoutUpdatedAt() {
	_, err := suite.repo.Update(suite.context, "activities", 3, []byte(`{"id":3}`), suite.tenantID)
	assert.True(suite.T(), models.IsValidationError(err))
}

func (suite *RecordRepoTestSuite) TestUpdate_ActivityHasNoUpdatedAt() {
	suite.expectTenantContext()
	update := "UPDATE activities SET subject = $1 WHERE id = $2 AND tenant_id = $3 RETURNING " +
		strings.Join(entities.Describe(entities.Activities).Columns, ", ")
	suite.mock.ExpectQuery(regexp.QuoteMeta(update)).
		WithArgs("Follow up", int64(3), suite.tenantID).
		WillReturnRows(pgxmock.NewRows(entities.Describe(entities.Activities).Columns).
			AddRow(int64(3), suite.tenantID, models.ActivityCall, "Follow up", nil, nil, nil, nil, &suite.now, suite.now))
	suite.mock.ExpectCommit()

	record, err := suite.repo.Update(suite.context, "activities", 3, []byte(`{"subject":"Follow up"}`), suite.tenantID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), "Follow up", record.(*models.Activity).Subject)
}

func (suite *RecordRepoTestSuite) TestDelete_Success() {
	suite.expectTenantContext()
	suite.mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM accounts WHERE id = $1 AND tenant_id = $2 RETURNING id")).
		WithArgs(int64(5), suite.tenantID).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(int64(5)))
	suite.mock.ExpectCommit()

	id, err := suite.repo.Delete(suite.context, "accounts", 5, suite.tenantID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), int64(5), id)
}

func (suite *RecordRepoTestSuite) TestDelete_OtherTenantIsNotFound() {
	suite.expectTenantContext()
	suite.mock.ExpectQuery("DELETE FROM accounts").
		WithArgs(int64(6), suite.tenantID).
		WillReturnRows(pgxmock.NewRows([]string{"id"}))
	suite.mock.ExpectRollback()

	_, err := suite.repo.Delete(suite.context, "accounts", 6, suite.tenantID)

	var notFound *RecordNotFoundError
	assert.ErrorAs(suite.T(), err, &notFound)
}

func (suite *RecordRepoTestSuite) TestDelete_TenantIsItsOwnScope() {
	suite.expectTenantContext()
	suite.mock.ExpectQuery(regexp.QuoteMeta("DELETE FROM tenants WHERE id = $1 AND id = $2 RETURNING id")).
		WithArgs(suite.tenantID, suite.tenantID).
		WillReturnRows(pgxmock.NewRows([]string{"id"}).AddRow(suite.tenantID))
	suite.mock.ExpectCommit()

	id, err := suite.repo.Delete(suite.context, "tenants", suite.tenantID, suite.tenantID)
	require.NoError(suite.T(), err)
	assert.Equal(suite.T(), suite.tenantID, id)
}
