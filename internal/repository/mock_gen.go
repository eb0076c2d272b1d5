// internal/repository/mock_gen.go
package repository

//go:generate mockgen -source=./repository.go -destination=../mocks/mock_transaction.go -package=mocks Transaction
//go:generate mockgen -source=./user.go -destination=../mocks/mock_user_repository.go -package=mocks UserRepositoryIface
//go:generate mockgen -source=./organization.go -destination=../mocks/mock_organization_repository.go -package=mocks OrganizationRepositoryIface
//go:generate mockgen -source=./invitation.go -destination=../mocks/mock_invitation_repository.go -package=mocks InvitationRepositoryIface
//go:generate mockgen -source=./attendance.go -destination=../mocks/mock_attendance_repository.go -package=mocks AttendanceRepositoryIface
//go:generate mockgen -source=./task.go -destination=../mocks/mock_task_repository.go -package=mocks TaskRepositoryIface
