package dto

import "time"

// ReviewRequest payload.
type ReviewRequest struct {
	CommentDescription string `json:"comment_description" validate:"required,max=300"`
	Ratings            string `json:"ratings" validate:"required"`
	VoteType           string `json:"vote_type" validate:"required"`
}

// ImageResponse references a stored image.
type ImageResponse struct {
	ImageURL string `json:"image_url"`
}

// ReviewResponse is one review of a recipe.
type ReviewResponse struct {
	ReviewID           string    `json:"review_id"`
	RecipeID           string    `json:"recipe_id"`
	ChefID             string    `json:"chef_id"`
	CommentDescription string    `json:"comment_description"`
	Ratings            string    `json:"ratings"`
	VoteType           string    `json:"vote_type"`
	DateOfPublish      time.Time `json:"date_of_publish"`
}

// RecipeResponse is a recipe with its images, reviews and vote totals.
type RecipeResponse struct {
	RecipeID            string           `json:"recipe_id"`
	ChefID              string           `json:"chef_id"`
	Name                string           `json:"name"`
	Cusine              string           `json:"cusine"`
	Ingredients         string           `json:"ingredients"`
	CookingInstructions string           `json:"cooking_instructions"`
	DateOfPublish       time.Time        `json:"date_of_publish"`
	Images              []ImageResponse  `json:"images"`
	RecipeReview        []ReviewResponse `json:"recipe_review"`
	TotalLikes          int              `json:"total_likes"`
	TotalDislikes       int              `json:"total_dislikes"`
}
