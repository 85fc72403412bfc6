package matching_test

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/mock/gomock"

	"github.com/MrJamesThe3rd/washrent/internal/matching"
)

func TestService_Suggest(t *testing.T) {
	ctrl := gomock.NewController(t)
	defer ctrl.Finish()

	repo := matching.NewMockRepository(ctrl)
	svc := matching.NewService(repo)

	repo.EXPECT().FindMatch(gomock.Any(), "FERRETERIA EL TORNILLO").Return("Repuestos", nil)

	got, err := svc.Suggest(context.Background(), "  FERRETERIA EL TORNILLO ")
	require.NoError(t, err)
	assert.Equal(t, "Repuestos", got)

	got, err = svc.Suggest(context.Background(), "   ")
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestService_Learn(t *testing.T) {
	type args struct {
		pattern string
		concept string
	}

	type testCase struct {
		name      string
		args      args
		setupMock func(m *matching.MockRepository)
		wantErr   error
	}

	tests := []testCase{
		{
			name: "Success",
			args: args{pattern: " TORNILLO ", concept: "Repuestos"},
			setupMock: func(m *matching.MockRepository) {
				m.EXPECT().CreateMapping(gomock.Any(), "TORNILLO", "Repuestos").Return(nil)
			},
		},
		{
			name:    "EmptyPattern",
			args:    args{pattern: " ", concept: "Repuestos"},
			wantErr: matching.ErrEmptyMapping,
		},
		{
			name:    "EmptyConcept",
			args:    args{pattern: "TORNILLO"},
			wantErr: matching.ErrEmptyMapping,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctrl := gomock.NewController(t)
			defer ctrl.Finish()

			repo := matching.NewMockRepository(ctrl)
			if tt.setupMock != nil {
				tt.setupMock(repo)
			}

			err := matching.NewService(repo).Learn(context.Background(), tt.args.pattern, tt.args.concept)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}

			assert.NoError(t, err)
		})
	}
}
