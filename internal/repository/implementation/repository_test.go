package implementation

import (
	"context"
	"regexp"
	"testing"
	"time"

	"mitr-be/internal/entity"
	"mitr-be/internal/repository/contract"
	"mitr-be/internal/repository/specification"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newMockDB(t *testing.T) (*gorm.DB, sqlmock.Sqlmock) {
	t.Helper()
	sqlDB, mock, err := sqlmock.New()
	require.NoError(t, err)
	t.Cleanup(func() { sqlDB.Close() })

	db, err := gorm.Open(postgres.New(postgres.Config{Conn: sqlDB}), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)
	return db, mock
}

func TestBookingCreateMapsUniqueViolation(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)
	counsellor := "c1"

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "bookings"`)).
		WillReturnError(&pgconn.PgError{Code: "23505", Message: "duplicate key value violates unique constraint"})
	mock.ExpectRollback()

	err := repo.Create(context.Background(), &entity.Booking{
		Id:           uuid.New(),
		UserId:       uuid.New(),
		CounsellorId: &counsellor,
		Date:         "2030-01-07",
		Time:         "10:00",
		Status:       entity.BookingStatusScheduled,
	})
	assert.ErrorIs(t, err, contract.ErrSlotTaken)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBookingBookedTimes(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewBookingRepository(db)

	mock.ExpectQuery(`SELECT .*time.* FROM "bookings" WHERE counsellor_id = \$1 AND date = \$2 AND status = \$3 ORDER BY time ASC`).
		WithArgs("c1", "2030-01-07", "scheduled").
		WillReturnRows(sqlmock.NewRows([]string{"time"}).AddRow("10:00").AddRow("11:00"))

	times, err := repo.BookedTimes(context.Background(), "c1", "2030-01-07")
	require.NoError(t, err)
	assert.Equal(t, []string{"10:00", "11:00"}, times)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupMessagesOrderedWithReactions(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGroupMessageRepository(db)

	first, second := uuid.New(), uuid.New()
	user := uuid.New()
	ts := time.Date(2030, 1, 7, 10, 0, 0, 0, time.UTC)

	cols := []string{"id", "seq", "room", "user_id", "content", "reply_to", "flagged", "pinned", "created_at"}
	mock.ExpectQuery(`SELECT \* FROM "group_messages" WHERE room = \$1 ORDER BY seq ASC`).
		WithArgs("anxiety").
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(first.String(), 1, "anxiety", user.String(), "hello", nil, false, false, ts).
			AddRow(second.String(), 2, "anxiety", user.String(), "same instant", nil, false, true, ts))
	mock.ExpectQuery(`SELECT \* FROM "group_message_reactions" WHERE message_id IN \(\$1,\$2\)`).
		WillReturnRows(sqlmock.NewRows([]string{"message_id", "emoji", "count"}).
			AddRow(second.String(), "💛", 3))

	msgs, err := repo.FindAll(context.Background(), specification.ByRoom{Room: "anxiety"})
	require.NoError(t, err)
	require.Len(t, msgs, 2)

	assert.Equal(t, int64(1), msgs[0].Seq)
	assert.Empty(t, msgs[0].Reactions)
	assert.Equal(t, map[string]int{"💛": 3}, msgs[1].Reactions)
	assert.True(t, msgs[1].Pinned)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupMessagesPageFollowsSeqCursor(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGroupMessageRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "group_messages" WHERE room = \$1 AND seq > \$2 ORDER BY seq ASC LIMIT`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	msgs, err := repo.FindAll(context.Background(),
		specification.ByRoom{Room: "exams"},
		specification.AfterSeq{Seq: 41},
		specification.Limit{N: 50},
	)
	require.NoError(t, err)
	assert.Empty(t, msgs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupLatestReturnsAscending(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGroupMessageRepository(db)
	user := uuid.New()
	ts := time.Date(2030, 1, 7, 10, 0, 0, 0, time.UTC)
	a, b := uuid.New(), uuid.New()

	cols := []string{"id", "seq", "room", "user_id", "content", "reply_to", "flagged", "pinned", "created_at"}
	mock.ExpectQuery(`SELECT \* FROM "group_messages" WHERE room = \$1 ORDER BY seq DESC LIMIT`).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(b.String(), 301, "general", user.String(), "newest", nil, false, false, ts).
			AddRow(a.String(), 300, "general", user.String(), "older", nil, false, false, ts))
	mock.ExpectQuery(`SELECT \* FROM "group_message_reactions" WHERE message_id IN`).
		WillReturnRows(sqlmock.NewRows([]string{"message_id", "emoji", "count"}))

	msgs, err := repo.FindLatest(context.Background(), 2, specification.ByRoom{Room: "general"})
	require.NoError(t, err)
	require.Len(t, msgs, 2)
	assert.Equal(t, []int64{300, 301}, []int64{msgs[0].Seq, msgs[1].Seq})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupMessagesEmptyRoomSkipsReactionQuery(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGroupMessageRepository(db)

	mock.ExpectQuery(`SELECT \* FROM "group_messages"`).
		WillReturnRows(sqlmock.NewRows([]string{"id"}))

	msgs, err := repo.FindAll(context.Background(), specification.ByRoom{Room: "general"})
	require.NoError(t, err)
	assert.Empty(t, msgs)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupReportDuplicate(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGroupMessageRepository(db)

	mock.ExpectBegin()
	mock.ExpectQuery(regexp.QuoteMeta(`INSERT INTO "group_message_reports"`)).
		WillReturnError(&pgconn.PgError{Code: "23505"})
	mock.ExpectRollback()

	err := repo.CreateReport(context.Background(), &entity.GroupMessageReport{
		Id:         uuid.New(),
		MessageId:  uuid.New(),
		ReporterId: uuid.New(),
		Reason:     "spam",
	})
	assert.ErrorIs(t, err, contract.ErrDuplicate)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestGroupReportsAttachMessages(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewGroupMessageRepository(db)

	live, gone := uuid.New(), uuid.New()
	reporter := uuid.New()
	ts := time.Date(2030, 1, 7, 10, 0, 0, 0, time.UTC)

	mock.ExpectQuery(`SELECT \* FROM "group_message_reports" ORDER BY created_at DESC LIMIT`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "message_id", "reporter_id", "reason", "created_at"}).
			AddRow(uuid.NewString(), live.String(), reporter.String(), "worrying", ts).
			AddRow(uuid.NewString(), gone.String(), reporter.String(), "spam", ts))
	mock.ExpectQuery(`SELECT \* FROM "group_messages" WHERE id IN \(\$1,\$2\)`).
		WillReturnRows(sqlmock.NewRows([]string{"id", "seq", "room", "user_id", "content", "reply_to", "flagged", "pinned", "created_at"}).
			AddRow(live.String(), 4, "exams", reporter.String(), "cannot cope", nil, true, false, ts))

	reports, err := repo.FindReports(context.Background(), specification.Pagination{Limit: 20})
	require.NoError(t, err)
	require.Len(t, reports, 2)

	require.NotNil(t, reports[0].Message)
	assert.Equal(t, "exams", reports[0].Message.Room)
	assert.Nil(t, reports[1].Message)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestChatbotRecentReturnsSeqOrder(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewChatbotMessageRepository(db)
	user := uuid.New()
	now := time.Now()

	cols := []string{"id", "seq", "user_id", "role", "content", "lang", "created_at"}
	mock.ExpectQuery(`SELECT \* FROM "chatbot_messages" WHERE user_id = \$1 ORDER BY seq DESC LIMIT`).
		WillReturnRows(sqlmock.NewRows(cols).
			AddRow(uuid.NewString(), 9, user.String(), "assistant", "third", "en-US", now).
			AddRow(uuid.NewString(), 8, user.String(), "user", "second", "en-US", now).
			AddRow(uuid.NewString(), 7, user.String(), "assistant", "first", "en-US", now))

	msgs, err := repo.Recent(context.Background(), user, 3)
	require.NoError(t, err)
	require.Len(t, msgs, 3)
	assert.Equal(t, []int64{7, 8, 9}, []int64{msgs[0].Seq, msgs[1].Seq, msgs[2].Seq})
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestIsUniqueViolation(t *testing.T) {
	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isUniqueViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isUniqueViolation(assert.AnError))
}

func TestWithoutMutedDropsMutedUsers(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewNotificationRepository(db)
	keep, mute := uuid.New(), uuid.New()

	mock.ExpectQuery(`SELECT .*user_id.* FROM "user_notification_preferences" WHERE user_id IN \(\$1,\$2\) AND muted_types @> \$3::jsonb`).
		WillReturnRows(sqlmock.NewRows([]string{"user_id"}).AddRow(mute.String()))

	out, err := repo.WithoutMuted(context.Background(), "BOOKING_CREATED", []uuid.UUID{keep, mute})
	require.NoError(t, err)
	assert.Equal(t, []uuid.UUID{keep}, out)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestListForUserSkipsFetchWhenEmpty(t *testing.T) {
	db, mock := newMockDB(t)
	repo := NewNotificationRepository(db)

	mock.ExpectQuery(`SELECT count\(\*\) FROM "notifications" WHERE user_id = \$1`).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))

	rows, total, err := repo.ListForUser(context.Background(), uuid.New(), specification.Page(1, 20))
	require.NoError(t, err)
	assert.Zero(t, total)
	assert.Empty(t, rows)
	assert.NoError(t, mock.ExpectationsWereMet())
}
