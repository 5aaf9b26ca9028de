package domain

// Параметры восприятия
const (
	VisionRadius = 8
)
