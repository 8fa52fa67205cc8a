package unitofwork_test

import (
	"context"
	"log"
	"os"
	"testing"
	"time"

	"classroom-ai-be/internal/entity"
	"classroom-ai-be/internal/repository/unitofwork"
	"classroom-ai-be/pkg/database"

	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// TestGormRepositories runs against DB_CONNECTION_STRING inside a
// transaction that is always rolled back.
func TestGormRepositories(t *testing.T) {
	if err := godotenv.Load("../../../.env"); err != nil {
		log.Println("No .env file found, using system env")
	}

	dsn := os.Getenv("DB_CONNECTION_STRING")
	if dsn == "" {
		t.Skip("Skipping integration test: DB_CONNECTION_STRING not set")
	}

	gormDB, err := database.NewGormDBFromDSN(dsn, false)
	require.NoError(t, err)
	require.NoError(t, database.Migrate(gormDB))

	ctx := context.Background()
	uow := unitofwork.NewRepositoryFactory(gormDB).NewUnitOfWork(ctx)
	require.NoError(t, uow.Begin(ctx))
	defer uow.Rollback()

	now := time.Now()
	// keeps clear of real deployments on the unique (course, section) index
	courseId := 1_000_000_000 + now.UnixNano()%1_000_000
	conv := &entity.TeacherConversation{Id: uuid.New(), TeacherId: 10, CourseId: courseId, CourseSectionId: 6, CreatedAt: now}
	require.NoError(t, uow.TeacherConversationRepository().Create(ctx, conv))

	t.Run("messages come back in send order", func(t *testing.T) {
		for i, content := range []string{"q1", "a1", "q2"} {
			sender := "user"
			if i%2 == 1 {
				sender = "assistant"
			}
			require.NoError(t, uow.TeacherMessageRepository().Create(ctx, &entity.TeacherMessage{
				ConversationId: conv.Id,
				Sender:         sender,
				Content:        content,
				SentAt:         now,
			}))
		}

		msgs, err := uow.TeacherMessageRepository().FindAllByConversationId(ctx, conv.Id)
		require.NoError(t, err)
		require.Len(t, msgs, 3)
		assert.Equal(t, "q1", msgs[0].Content)
		assert.Equal(t, "q2", msgs[2].Content)
	})

	t.Run("section deploys once", func(t *testing.T) {
		deployed := &entity.StudentConversation{Id: uuid.New(), CourseId: courseId, CourseSectionId: 6, SourceConversationId: conv.Id, CreatedAt: now}
		require.NoError(t, uow.StudentConversationRepository().Create(ctx, deployed))

		found, err := uow.StudentConversationRepository().FindByCourseSection(ctx, courseId, 6)
		require.NoError(t, err)
		require.NotNil(t, found)
		assert.Equal(t, conv.Id, found.SourceConversationId)

		require.NoError(t, uow.StudentFeedbackRepository().Upsert(ctx, &entity.StudentFeedback{StudentId: 21, ConversationId: deployed.Id, Feedback: "v1"}))
		require.NoError(t, uow.StudentFeedbackRepository().Upsert(ctx, &entity.StudentFeedback{StudentId: 21, ConversationId: deployed.Id, Feedback: "v2"}))

		rows, err := uow.StudentFeedbackRepository().FindAllByConversationId(ctx, deployed.Id)
		require.NoError(t, err)
		require.Len(t, rows, 1)
		assert.Equal(t, "v2", rows[0].Feedback)
	})

	t.Run("file index upsert", func(t *testing.T) {
		key := "it-" + uuid.NewString()[:8]
		require.NoError(t, uow.FileIndexRepository().Upsert(ctx, &entity.FileIndex{DocumentKey: key, Dimension: 4, ChunkCount: 2, Stats: map[string]interface{}{"chunks": 2}}))
		require.NoError(t, uow.FileIndexRepository().Upsert(ctx, &entity.FileIndex{DocumentKey: key, Dimension: 4, ChunkCount: 3, Stats: map[string]interface{}{"chunks": 3}}))

		row, err := uow.FileIndexRepository().FindByDocumentKey(ctx, key)
		require.NoError(t, err)
		require.NotNil(t, row)
		assert.Equal(t, 3, row.ChunkCount)

		require.NoError(t, uow.FileIndexRepository().DeleteByDocumentKey(ctx, key))
		row, err = uow.FileIndexRepository().FindByDocumentKey(ctx, key)
		require.NoError(t, err)
		assert.Nil(t, row)
	})
}
