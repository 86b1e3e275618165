package api

// Service accessors group Client methods by resource.
// Each service embeds *Client so it shares the executor and token source.

type ComplaintsService struct{ *Client }

type CustomersService struct{ *Client }

type UsersService struct{ *Client }

type CategoriesService struct{ *Client }

type CommentsService struct{ *Client }

func (c *Client) Complaints() ComplaintsService { return ComplaintsService{c} }

func (c *Client) Customers() CustomersService { return CustomersService{c} }

func (c *Client) Users() UsersService { return UsersService{c} }

func (c *Client) Categories() CategoriesService { return CategoriesService{c} }

func (c *Client) Comments() CommentsService { return CommentsService{c} }
