package model

// Package model contains the MentorLink domain models.
// Pure data types shared across layers (HTTP, service, repository, view);
// no database-specific dependencies and no business logic here.
