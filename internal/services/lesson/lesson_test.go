package services

import (
	"testing"

	"github.com/go-playground/validator"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/magabrotheeeer/lms-backend/internal/models"
)

func TestRegisterVideoHostValidation(t *testing.T) {
	validate := validator.New()
	require.NoError(t, RegisterVideoHostValidation(validate))

	tests := []struct {
		name    string
		url     string
		wantErr bool
	}{
		{
			name: "ссылка на youtube.com",
			url:  "https://youtube.com/watch?v=dQw4w9WgXcQ",
		},
		{
			name: "ссылка на www.youtube.com",
			url:  "https://www.youtube.com/watch?v=dQw4w9WgXcQ",
		},
		{
			name: "регистр хоста не важен",
			url:  "https://WWW.YouTube.com/watch?v=dQw4w9WgXcQ",
		},
		{
			name:    "чужой видеохостинг",
			url:     "https://vimeo.com/123456",
			wantErr: true,
		},
		{
			name:    "похожий, но другой домен",
			url:     "https://evilyoutube.com/watch?v=dQw4w9WgXcQ",
			wantErr: true,
		},
		{
			name:    "youtube.com внутри пути не считается",
			url:     "https://example.com/youtube.com/video",
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := models.DummyLesson{
				CourseID: 1,
				Title:    "Введение",
				VideoURL: tt.url,
			}
			err := validate.Struct(req)
			if tt.wantErr {
				assert.Error(t, err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}
