package repository

import (
	"context"
	"errors"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	errorvalues "github.com/ndelacroix/habitude/internal/error_values"
	"github.com/ndelacroix/habitude/pkg/cleanup"
	"github.com/ndelacroix/habitude/pkg/entity"
)

type DailyLogsRepository struct {
	conn PgConnection
}

func NewDailyLogsRepo(cfg DBConfig) *DailyLogsRepository {
	pool, err := pgxpool.New(context.Background(), cfg.ConnString())
	if err != nil {
		log.Fatal("creating connection for dailyLogsRepo error: " + err.Error())
	}
	err = pool.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for dailyLogsRepo: " + err.Error())
	}
	cleanup.Register(&cleanup.Job{
		Name: "closing dailyLogsRepo pgxpool",
		F: func() error {
			pool.Close()
			return nil
		},
	})
	return &DailyLogsRepository{
		conn: pool,
	}
}

func NewDailyLogsRepoWithConn(conn PgConnection) *DailyLogsRepository {
	err := conn.Ping(context.Background())
	if err != nil {
		log.Fatal("error while pinging connection for dailyLogsRepo: " + err.Error())
	}
	return &DailyLogsRepository{
		conn: conn,
	}
}

// FindByUserAndDay matches by the half-open range [dayStart, dayStart+24h)
// rather than equality, tolerating rows stored before dates were normalized.
func (dr *DailyLogsRepository) FindByUserAndDay(ctx context.Context, uid uuid.UUID, dayStart time.Time) (*entity.DailyLog, error) {
	var l entity.DailyLog
	row := dr.conn.QueryRow(
		ctx,
		`SELECT id, user_id, log_date, sport, nutrition, reading, work, meditation
		FROM daily_logs WHERE user_id = $1 AND log_date >= $2 AND log_date < $3;`,
		uid,
		dayStart,
		dayStart.AddDate(0, 0, 1),
	)
	if err := row.Scan(&l.ID, &l.UserID, &l.Date, &l.Sport, &l.Nutrition, &l.Reading, &l.Work, &l.Meditation); err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, errorvalues.ErrLogNotFound
		}
		return nil, errors.New("searching daily log error: " + err.Error())
	}
	return &l, nil
}

func (dr *DailyLogsRepository) RecentByUser(ctx context.Context, uid uuid.UUID, limit int) ([]entity.DailyLog, error) {
	rows, err := dr.conn.Query(
		ctx,
		`SELECT id, user_id, log_date, sport, nutrition, reading, work, meditation
		FROM daily_logs WHERE user_id = $1 ORDER BY log_date DESC LIMIT $2;`,
		uid,
		limit,
	)
	if err != nil {
		return nil, errors.New("getting recent logs error: " + err.Error())
	}
	defer rows.Close()
	logs := make([]entity.DailyLog, 0)
	for rows.Next() {
		l := entity.DailyLog{}
		err = rows.Scan(&l.ID, &l.UserID, &l.Date, &l.Sport, &l.Nutrition, &l.Reading, &l.Work, &l.Meditation)
		if err != nil {
			return nil, errors.New("daily log row parsing error: " + err.Error())
		}
		logs = append(logs, l)
	}
	if rows.Err() != nil {
		return nil, errors.New("unexpected error after scanning logs: " + rows.Err().Error())
	}
	return logs, nil
}

func (dr *DailyLogsRepository) Create(ctx context.Context, l *entity.DailyLog) error {
	if l == nil {
		return errors.New("daily log is nil")
	}
	row := dr.conn.QueryRow(
		ctx,
		`INSERT INTO daily_logs (user_id, log_date, sport, nutrition, reading, work, meditation)
		VALUES ($1, $2, $3, $4, $5, $6, $7) RETURNING id;`,
		l.UserID,
		l.Date,
		l.Sport,
		l.Nutrition,
		l.Reading,
		l.Work,
		l.Meditation,
	)
	if err := row.Scan(&l.ID); err != nil {
		switch pgErrCode(err) {
		// Unique violation
		case "23505":
			return errorvalues.ErrLogExists
		// FK violation
		case "23503":
			return errorvalues.ErrUserNotFound
		}
		return errors.New("creating daily log error: " + err.Error())
	}
	return nil
}

func (dr *DailyLogsRepository) UpdateFlags(ctx context.Context, l *entity.DailyLog) error {
	ct, err := dr.conn.Exec(
		ctx,
		`UPDATE daily_logs SET sport = $1, nutrition = $2, reading = $3, work = $4, meditation = $5 WHERE id = $6;`,
		l.Sport,
		l.Nutrition,
		l.Reading,
		l.Work,
		l.Meditation,
		l.ID,
	)
	if err != nil {
		return errors.New("updating daily log error: " + err.Error())
	}
	if ct.RowsAffected() == 0 {
		return errorvalues.ErrLogNotFound
	}
	return nil
}
