package core

import (
	"context"
	"fmt"
	"strings"
)

// ListQuestions returns the questions of a course in id order. An unknown
// course yields an empty list.
func (s *Service) ListQuestions(ctx context.Context, courseID int64) ([]FillBlankQuestion, error) {
	qs, err := s.gw.ListQuestions(ctx, courseID)
	if err != nil {
		return nil, fmt.Errorf("list questions for course %d: %w", courseID, err)
	}
	if qs == nil {
		qs = []FillBlankQuestion{}
	}
	return qs, nil
}

// UpdateQuestion applies the non-nil fields of patch to question id and
// returns the stored record. An empty patch changes nothing.
func (s *Service) UpdateQuestion(ctx context.Context, id int64, patch QuestionPatch) (*FillBlankQuestion, error) {
	if err := s.validate.Struct(patch); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidInput, err)
	}

	var out *FillBlankQuestion
	err := s.gw.InTx(ctx, func(repo Repository) error {
		q, err := repo.GetQuestion(ctx, id)
		if err != nil {
			return err
		}
		if patch.IsEmpty() {
			out = q
			return nil
		}

		if patch.CorrectOption != nil && !ValidOption(*patch.CorrectOption) {
			return fmt.Errorf("%w: got %d", ErrInvalidRange, *patch.CorrectOption)
		}
		if err := applyPatch(q, patch); err != nil {
			return err
		}

		if err := repo.UpdateQuestion(ctx, q); err != nil {
			return err
		}
		out = q
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("update question %d: %w", id, err)
	}
	return out, nil
}

// applyPatch copies the supplied fields into q. Text and answers must stay
// non-blank. The explanation may be emptied with "" or set to NULL.
func applyPatch(q *FillBlankQuestion, p QuestionPatch) error {
	required := []struct {
		name string
		src  *string
		dst  *string
	}{
		{"texte", p.Text, &q.Text},
		{"reponse1", p.Option1, &q.Option1},
		{"reponse2", p.Option2, &q.Option2},
		{"reponse3", p.Option3, &q.Option3},
		{"reponse4", p.Option4, &q.Option4},
	}
	for _, f := range required {
		if f.src == nil {
			continue
		}
		v := strings.TrimSpace(*f.src)
		if v == "" {
			return fmt.Errorf("%w: %s cannot be blank", ErrInvalidInput, f.name)
		}
		*f.dst = v
	}

	if p.CorrectOption != nil {
		q.CorrectOption = *p.CorrectOption
	}
	switch {
	case p.Explanation != nil:
		expl := *p.Explanation
		q.Explanation = &expl
	case p.ClearExplanation:
		q.Explanation = nil
	}
	return nil
}

// DeleteQuestion removes question id, or returns ErrNotFound.
func (s *Service) DeleteQuestion(ctx context.Context, id int64) error {
	if err := s.gw.DeleteQuestion(ctx, id); err != nil {
		return fmt.Errorf("delete question %d: %w", id, err)
	}
	return nil
}
