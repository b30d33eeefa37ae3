package ports

// UpdateCollaboratorInput lists the collaborator fields to change. Nil
// leaves a field untouched; Password is re-hashed when set.
type UpdateCollaboratorInput struct {
	FullName   *string `validate:"omitempty,min=1,max=255"`
	Email      *string `validate:"omitempty,email,max=255"`
	Department *string `validate:"omitempty,max=255"`
	Role       *string `validate:"omitempty,oneof=Admin Commercial Support"`
	Password   *string `validate:"omitempty,min=8,max=1024"`
}
