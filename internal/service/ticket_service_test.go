package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"gorm.io/gorm"

	"bugtrail/internal/auth"
	apperrors "bugtrail/internal/errors"
	"bugtrail/internal/model"
)

func TestTicketService_Create(t *testing.T) {
	projectID := uuid.New()
	assigneeID := uuid.New()

	tests := []struct {
		name          string
		actor         auth.Identity
		input         CreateTicketInput
		setupMocks    func(*MockTicketRepository, *MockProjectRepository, *MockUserRepository)
		expectedError error
		checkTicket   func(*testing.T, *model.Ticket)
	}{
		{
			name:  "manager creates ticket with assignee",
			actor: managerActor(),
			input: CreateTicketInput{
				Title:      "Fix login crash",
				Priority:   model.PriorityHigh,
				ProjectID:  projectID,
				AssigneeID: &assigneeID,
			},
			setupMocks: func(mt *MockTicketRepository, mp *MockProjectRepository, mu *MockUserRepository) {
				mp.On("FindByID", mock.Anything, projectID).Return(&model.Project{ID: projectID}, nil)
				mu.On("FindByID", mock.Anything, assigneeID).Return(&model.User{ID: assigneeID, Role: model.RoleUser}, nil)
				mt.On("Create", mock.Anything, mock.AnythingOfType("*model.Ticket")).Run(func(args mock.Arguments) {
					ticket := args.Get(1).(*model.Ticket)
					ticket.ID = uuid.New()
				}).Return(nil)
				mt.On("FindByID", mock.Anything, mock.AnythingOfType("uuid.UUID")).Return(&model.Ticket{
					Title:    "Fix login crash",
					Status:   model.StatusTodo,
					Priority: model.PriorityHigh,
				}, nil)
			},
			checkTicket: func(t *testing.T, ticket *model.Ticket) {
				assert.Equal(t, model.StatusTodo, ticket.Status)
				assert.Equal(t, model.PriorityHigh, ticket.Priority)
			},
		},
		{
			name:  "unknown priority falls back to medium",
			actor: adminActor(),
			input: CreateTicketInput{
				Title:     "Tune indexes",
				Priority:  "URGENT",
				ProjectID: projectID,
			},
			setupMocks: func(mt *MockTicketRepository, mp *MockProjectRepository, mu *MockUserRepository) {
				mp.On("FindByID", mock.Anything, projectID).Return(&model.Project{ID: projectID}, nil)
				mt.On("Create", mock.Anything, mock.AnythingOfType("*model.Ticket")).Run(func(args mock.Arguments) {
					ticket := args.Get(1).(*model.Ticket)
					assert.Equal(t, model.PriorityMedium, ticket.Priority)
					assert.Equal(t, model.StatusTodo, ticket.Status)
					ticket.ID = uuid.New()
				}).Return(nil)
				mt.On("FindByID", mock.Anything, mock.AnythingOfType("uuid.UUID")).Return(&model.Ticket{
					Priority: model.PriorityMedium,
					Status:   model.StatusTodo,
				}, nil)
			},
		},
		{
			name:          "regular user denied",
			actor:         userActor(),
			input:         CreateTicketInput{Title: "Nope", ProjectID: projectID},
			setupMocks:    func(mt *MockTicketRepository, mp *MockProjectRepository, mu *MockUserRepository) {},
			expectedError: apperrors.ErrAccessDenied,
		},
		{
			name:          "empty title rejected",
			actor:         adminActor(),
			input:         CreateTicketInput{Title: "  ", ProjectID: projectID},
			setupMocks:    func(mt *MockTicketRepository, mp *MockProjectRepository, mu *MockUserRepository) {},
			expectedError: apperrors.ErrTicketTitleRequired,
		},
		{
			name:  "project missing",
			actor: adminActor(),
			input: CreateTicketInput{Title: "Orphan", ProjectID: projectID},
			setupMocks: func(mt *MockTicketRepository, mp *MockProjectRepository, mu *MockUserRepository) {
				mp.On("FindByID", mock.Anything, projectID).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrProjectNotFound,
		},
		{
			name:  "assignee missing",
			actor: adminActor(),
			input: CreateTicketInput{Title: "Ghost assignee", ProjectID: projectID, AssigneeID: &assigneeID},
			setupMocks: func(mt *MockTicketRepository, mp *MockProjectRepository, mu *MockUserRepository) {
				mp.On("FindByID", mock.Anything, projectID).Return(&model.Project{ID: projectID}, nil)
				mu.On("FindByID", mock.Anything, assigneeID).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrUserNotFound,
		},
		{
			name:  "admin cannot be the assignee",
			actor: adminActor(),
			input: CreateTicketInput{Title: "Admin workload", ProjectID: projectID, AssigneeID: &assigneeID},
			setupMocks: func(mt *MockTicketRepository, mp *MockProjectRepository, mu *MockUserRepository) {
				mp.On("FindByID", mock.Anything, projectID).Return(&model.Project{ID: projectID}, nil)
				mu.On("FindByID", mock.Anything, assigneeID).Return(&model.User{ID: assigneeID, Role: model.RoleAdmin}, nil)
			},
			expectedError: apperrors.ErrAssigneeNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockTickets := new(MockTicketRepository)
			mockProjects := new(MockProjectRepository)
			mockUsers := new(MockUserRepository)
			tt.setupMocks(mockTickets, mockProjects, mockUsers)

			service := NewTicketService(mockTickets, mockProjects, mockUsers)
			ticket, err := service.Create(context.Background(), tt.actor, tt.input)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, ticket)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, ticket)
				if tt.checkTicket != nil {
					tt.checkTicket(t, ticket)
				}
			}

			mockTickets.AssertExpectations(t)
			mockProjects.AssertExpectations(t)
			mockUsers.AssertExpectations(t)
		})
	}
}

func TestTicketService_List(t *testing.T) {
	projectID := uuid.New()

	t.Run("admin sees everything with optional filter", func(t *testing.T) {
		mockTickets := new(MockTicketRepository)
		mockTickets.On("List", mock.Anything, &projectID).Return([]model.Ticket{{ID: uuid.New()}}, nil)

		service := NewTicketService(mockTickets, new(MockProjectRepository), new(MockUserRepository))
		tickets, err := service.List(context.Background(), adminActor(), &projectID)

		assert.NoError(t, err)
		assert.Len(t, tickets, 1)
		mockTickets.AssertExpectations(t)
	})

	t.Run("manager gets own workload, filter ignored", func(t *testing.T) {
		actor := managerActor()
		mockTickets := new(MockTicketRepository)
		mockTickets.On("ListByAssignee", mock.Anything, actor.ID).Return([]model.Ticket{}, nil)

		service := NewTicketService(mockTickets, new(MockProjectRepository), new(MockUserRepository))
		tickets, err := service.List(context.Background(), actor, &projectID)

		assert.NoError(t, err)
		assert.Empty(t, tickets)
		mockTickets.AssertExpectations(t)
	})

	t.Run("regular user denied", func(t *testing.T) {
		service := NewTicketService(new(MockTicketRepository), new(MockProjectRepository), new(MockUserRepository))
		tickets, err := service.List(context.Background(), userActor(), nil)

		assert.ErrorIs(t, err, apperrors.ErrAccessDenied)
		assert.Nil(t, tickets)
	})
}

func TestTicketService_ListMine(t *testing.T) {
	t.Run("user gets assigned tickets", func(t *testing.T) {
		actor := userActor()
		mockTickets := new(MockTicketRepository)
		mockTickets.On("ListByAssignee", mock.Anything, actor.ID).Return([]model.Ticket{{ID: uuid.New()}}, nil)

		service := NewTicketService(mockTickets, new(MockProjectRepository), new(MockUserRepository))
		tickets, err := service.ListMine(context.Background(), actor)

		assert.NoError(t, err)
		assert.Len(t, tickets, 1)
		mockTickets.AssertExpectations(t)
	})

	t.Run("manager denied", func(t *testing.T) {
		service := NewTicketService(new(MockTicketRepository), new(MockProjectRepository), new(MockUserRepository))
		_, err := service.ListMine(context.Background(), managerActor())

		assert.ErrorIs(t, err, apperrors.ErrAccessDenied)
	})
}

func TestTicketService_Get(t *testing.T) {
	ticketID := uuid.New()

	t.Run("user may read own ticket", func(t *testing.T) {
		actor := userActor()
		mockTickets := new(MockTicketRepository)
		mockTickets.On("FindByID", mock.Anything, ticketID).Return(&model.Ticket{ID: ticketID, AssigneeID: &actor.ID}, nil)

		service := NewTicketService(mockTickets, new(MockProjectRepository), new(MockUserRepository))
		ticket, err := service.Get(context.Background(), actor, ticketID)

		assert.NoError(t, err)
		assert.Equal(t, ticketID, ticket.ID)
	})

	t.Run("user denied on someone else's ticket", func(t *testing.T) {
		otherID := uuid.New()
		mockTickets := new(MockTicketRepository)
		mockTickets.On("FindByID", mock.Anything, ticketID).Return(&model.Ticket{ID: ticketID, AssigneeID: &otherID}, nil)

		service := NewTicketService(mockTickets, new(MockProjectRepository), new(MockUserRepository))
		_, err := service.Get(context.Background(), userActor(), ticketID)

		assert.ErrorIs(t, err, apperrors.ErrAccessDenied)
	})

	t.Run("user denied on unassigned ticket", func(t *testing.T) {
		mockTickets := new(MockTicketRepository)
		mockTickets.On("FindByID", mock.Anything, ticketID).Return(&model.Ticket{ID: ticketID}, nil)

		service := NewTicketService(mockTickets, new(MockProjectRepository), new(MockUserRepository))
		_, err := service.Get(context.Background(), userActor(), ticketID)

		assert.ErrorIs(t, err, apperrors.ErrAccessDenied)
	})

	t.Run("missing ticket", func(t *testing.T) {
		mockTickets := new(MockTicketRepository)
		mockTickets.On("FindByID", mock.Anything, ticketID).Return(nil, gorm.ErrRecordNotFound)

		service := NewTicketService(mockTickets, new(MockProjectRepository), new(MockUserRepository))
		_, err := service.Get(context.Background(), adminActor(), ticketID)

		assert.ErrorIs(t, err, apperrors.ErrTicketNotFound)
	})
}

func TestTicketService_Assign(t *testing.T) {
	ticketID := uuid.New()
	targetID := uuid.New()

	tests := []struct {
		name          string
		actor         auth.Identity
		setupMocks    func(*MockTicketRepository, *MockUserRepository)
		expectedError error
	}{
		{
			name:  "admin assigns to regular user",
			actor: adminActor(),
			setupMocks: func(mt *MockTicketRepository, mu *MockUserRepository) {
				mt.On("FindByID", mock.Anything, ticketID).Return(&model.Ticket{ID: ticketID}, nil)
				mu.On("FindByID", mock.Anything, targetID).Return(&model.User{ID: targetID, Role: model.RoleUser}, nil)
				mt.On("Update", mock.Anything, mock.AnythingOfType("*model.Ticket")).Run(func(args mock.Arguments) {
					ticket := args.Get(1).(*model.Ticket)
					assert.NotNil(t, ticket.AssigneeID)
					assert.Equal(t, targetID, *ticket.AssigneeID)
				}).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:          "manager denied",
			actor:         managerActor(),
			setupMocks:    func(mt *MockTicketRepository, mu *MockUserRepository) {},
			expectedError: apperrors.ErrAccessDenied,
		},
		{
			name:  "ticket missing",
			actor: adminActor(),
			setupMocks: func(mt *MockTicketRepository, mu *MockUserRepository) {
				mt.On("FindByID", mock.Anything, ticketID).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrTicketNotFound,
		},
		{
			name:  "target user missing",
			actor: adminActor(),
			setupMocks: func(mt *MockTicketRepository, mu *MockUserRepository) {
				mt.On("FindByID", mock.Anything, ticketID).Return(&model.Ticket{ID: ticketID}, nil)
				mu.On("FindByID", mock.Anything, targetID).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrUserNotFound,
		},
		{
			name:  "target is an admin",
			actor: adminActor(),
			setupMocks: func(mt *MockTicketRepository, mu *MockUserRepository) {
				mt.On("FindByID", mock.Anything, ticketID).Return(&model.Ticket{ID: ticketID}, nil)
				mu.On("FindByID", mock.Anything, targetID).Return(&model.User{ID: targetID, Role: model.RoleAdmin}, nil)
			},
			expectedError: apperrors.ErrAssigneeNotAllowed,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockTickets := new(MockTicketRepository)
			mockUsers := new(MockUserRepository)
			tt.setupMocks(mockTickets, mockUsers)

			service := NewTicketService(mockTickets, new(MockProjectRepository), mockUsers)
			ticket, err := service.Assign(context.Background(), tt.actor, ticketID, targetID)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, ticket)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, ticket)
			}

			mockTickets.AssertExpectations(t)
			mockUsers.AssertExpectations(t)
		})
	}
}

func TestTicketService_UpdateStatus(t *testing.T) {
	ticketID := uuid.New()

	tests := []struct {
		name          string
		actor         auth.Identity
		status        string
		setupMock     func(*MockTicketRepository)
		expectedError error
	}{
		{
			name:   "manager moves ticket to done",
			actor:  managerActor(),
			status: model.StatusDone,
			setupMock: func(m *MockTicketRepository) {
				m.On("FindByID", mock.Anything, ticketID).Return(&model.Ticket{ID: ticketID, Status: model.StatusInProgress}, nil)
				m.On("Update", mock.Anything, mock.AnythingOfType("*model.Ticket")).Return(nil)
			},
			expectedError: nil,
		},
		{
			name:          "regular user denied",
			actor:         userActor(),
			status:        model.StatusDone,
			setupMock:     func(m *MockTicketRepository) {},
			expectedError: apperrors.ErrAccessDenied,
		},
		{
			name:          "invalid status rejected",
			actor:         adminActor(),
			status:        "SHIPPED",
			setupMock:     func(m *MockTicketRepository) {},
			expectedError: apperrors.ErrInvalidStatus,
		},
		{
			name:   "ticket missing",
			actor:  adminActor(),
			status: model.StatusDone,
			setupMock: func(m *MockTicketRepository) {
				m.On("FindByID", mock.Anything, ticketID).Return(nil, gorm.ErrRecordNotFound)
			},
			expectedError: apperrors.ErrTicketNotFound,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			mockTickets := new(MockTicketRepository)
			tt.setupMock(mockTickets)

			service := NewTicketService(mockTickets, new(MockProjectRepository), new(MockUserRepository))
			ticket, err := service.UpdateStatus(context.Background(), tt.actor, ticketID, tt.status)

			if tt.expectedError != nil {
				assert.ErrorIs(t, err, tt.expectedError)
				assert.Nil(t, ticket)
			} else {
				assert.NoError(t, err)
				assert.Equal(t, tt.status, ticket.Status)
			}

			mockTickets.AssertExpectations(t)
		})
	}
}

func TestTicketService_UpdateMyStatus(t *testing.T) {
	ticketID := uuid.New()

	t.Run("user moves own ticket", func(t *testing.T) {
		actor := userActor()
		mockTickets := new(MockTicketRepository)
		mockTickets.On("FindByIDAndAssignee", mock.Anything, ticketID, actor.ID).Return(&model.Ticket{
			ID:         ticketID,
			Status:     model.StatusTodo,
			AssigneeID: &actor.ID,
		}, nil)
		mockTickets.On("Update", mock.Anything, mock.AnythingOfType("*model.Ticket")).Return(nil)

		service := NewTicketService(mockTickets, new(MockProjectRepository), new(MockUserRepository))
		ticket, err := service.UpdateMyStatus(context.Background(), actor, ticketID, model.StatusInProgress)

		assert.NoError(t, err)
		assert.Equal(t, model.StatusInProgress, ticket.Status)
		mockTickets.AssertExpectations(t)
	})

	t.Run("miss answers with a generic denial", func(t *testing.T) {
		// Same error whether the ticket does not exist or belongs to
		// someone else.
		actor := userActor()
		mockTickets := new(MockTicketRepository)
		mockTickets.On("FindByIDAndAssignee", mock.Anything, ticketID, actor.ID).Return(nil, gorm.ErrRecordNotFound)

		service := NewTicketService(mockTickets, new(MockProjectRepository), new(MockUserRepository))
		_, err := service.UpdateMyStatus(context.Background(), actor, ticketID, model.StatusDone)

		assert.ErrorIs(t, err, apperrors.ErrTicketNotAssigned)
	})

	t.Run("manager must use the unrestricted endpoint", func(t *testing.T) {
		service := NewTicketService(new(MockTicketRepository), new(MockProjectRepository), new(MockUserRepository))
		_, err := service.UpdateMyStatus(context.Background(), managerActor(), ticketID, model.StatusDone)

		assert.ErrorIs(t, err, apperrors.ErrAccessDenied)
	})

	t.Run("invalid status rejected", func(t *testing.T) {
		service := NewTicketService(new(MockTicketRepository), new(MockProjectRepository), new(MockUserRepository))
		_, err := service.UpdateMyStatus(context.Background(), userActor(), ticketID, "ARCHIVED")

		assert.ErrorIs(t, err, apperrors.ErrInvalidStatus)
	})
}
