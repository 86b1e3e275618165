package api

import (
	"context"
	"net/http"
)

// List retrieves all customers.
func (s CustomersService) List(ctx context.Context) ([]Customer, error) {
	return listCustomers(ctx, s)
}

func listCustomers(ctx context.Context, r Requester) ([]Customer, error) {
	var result []Customer
	if err := r.do(ctx, http.MethodGet, r.resourcePath("customers"), nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// List retrieves all users.
func (s UsersService) List(ctx context.Context) ([]User, error) {
	return listUsers(ctx, s)
}

func listUsers(ctx context.Context, r Requester) ([]User, error) {
	var result []User
	if err := r.do(ctx, http.MethodGet, r.resourcePath("users"), nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}

// List retrieves all complaint categories.
func (s CategoriesService) List(ctx context.Context) ([]Category, error) {
	return listCategories(ctx, s)
}

func listCategories(ctx context.Context, r Requester) ([]Category, error) {
	var result []Category
	if err := r.do(ctx, http.MethodGet, r.resourcePath("categories"), nil, &result); err != nil {
		return nil, err
	}
	return result, nil
}
