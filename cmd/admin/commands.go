package main

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"mime"
	"os"
	"path/filepath"
	"strings"
	"text/tabwriter"
	"time"

	"github.com/showcase/backend/internal/model"
	"github.com/showcase/backend/internal/repository"
	"github.com/showcase/backend/internal/storage"
	"github.com/showcase/backend/internal/view"
)

var errUsage = errors.New("usage")

// app holds the collaborators every command needs.
type app struct {
	catalog repository.CatalogRepository
	admin   repository.AdminRepository
	images  storage.Storage
	out     io.Writer
}

func (a *app) run(ctx context.Context, args []string) error {
	if len(args) < 2 {
		return errUsage
	}
	resource, cmd, rest := args[0], args[1], args[2:]

	switch resource + " " + cmd {
	case "category add":
		return a.categoryAdd(ctx, rest)
	case "category list":
		return a.categoryList(ctx, rest)
	case "category delete":
		return a.categoryDelete(ctx, rest)
	case "product add":
		return a.productAdd(ctx, rest)
	case "product list":
		return a.productList(ctx, rest)
	case "product import":
		return a.productImport(ctx, rest)
	case "product feature":
		return a.productFeature(ctx, rest)
	case "product price":
		return a.productPrice(ctx, rest)
	case "contact list":
		return a.contactList(ctx, rest)
	case "contact read":
		return a.contactRead(ctx, rest)
	default:
		return errUsage
	}
}

func newFlags(name string) *flag.FlagSet {
	fs := flag.NewFlagSet(name, flag.ContinueOnError)
	fs.SetOutput(io.Discard)
	return fs
}

func parse(fs *flag.FlagSet, args []string) error {
	if err := fs.Parse(args); err != nil {
		return fmt.Errorf("%s: %w", fs.Name(), err)
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("%s: unexpected arguments %v", fs.Name(), fs.Args())
	}
	return nil
}

func requireID(name string, id int64) error {
	if id <= 0 {
		return fmt.Errorf("%s: -id is required", name)
	}
	return nil
}

func (a *app) table() *tabwriter.Writer {
	return tabwriter.NewWriter(a.out, 0, 4, 2, ' ', 0)
}

// ---------------------------------------------------------------------------
// category
// ---------------------------------------------------------------------------

func (a *app) categoryAdd(ctx context.Context, args []string) error {
	fs := newFlags("category add")
	name := fs.String("name", "", "category name (unique, at most 100 characters)")
	description := fs.String("description", "", "optional description")
	if err := parse(fs, args); err != nil {
		return err
	}
	n := strings.TrimSpace(*name)
	switch {
	case n == "":
		return errors.New("category add: -name is required")
	case len([]rune(n)) > 100:
		return errors.New("category add: -name must be at most 100 characters")
	}

	c := &model.Category{Name: n, Description: strings.TrimSpace(*description)}
	if err := a.admin.CreateCategory(ctx, c); err != nil {
		if errors.Is(err, repository.ErrConflict) {
			return fmt.Errorf("category add: a category named %q already exists", n)
		}
		return fmt.Errorf("category add: %w", err)
	}
	fmt.Fprintf(a.out, "created category %d %q\n", c.ID, c.Name)
	return nil
}

func (a *app) categoryList(ctx context.Context, args []string) error {
	if err := parse(newFlags("category list"), args); err != nil {
		return err
	}
	categories, err := a.catalog.ListCategories(ctx)
	if err != nil {
		return fmt.Errorf("category list: %w", err)
	}
	counts, err := a.catalog.CountProductsByCategory(ctx)
	if err != nil {
		return fmt.Errorf("category list: %w", err)
	}

	tw := a.table()
	fmt.Fprintln(tw, "ID\tNAME\tPRODUCTS\tDESCRIPTION")
	for _, c := range categories {
		fmt.Fprintf(tw, "%d\t%s\t%d\t%s\n", c.ID, c.Name, counts[c.ID], c.Description)
	}
	return tw.Flush()
}

func (a *app) categoryDelete(ctx context.Context, args []string) error {
	fs := newFlags("category delete")
	id := fs.Int64("id", 0, "category id")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := requireID(fs.Name(), *id); err != nil {
		return err
	}
	if err := a.admin.DeleteCategory(ctx, *id); err != nil {
		return fmt.Errorf("category delete: %w", err)
	}
	fmt.Fprintf(a.out, "deleted category %d and its products\n", *id)
	return nil
}

// ---------------------------------------------------------------------------
// product
// ---------------------------------------------------------------------------

func (a *app) productAdd(ctx context.Context, args []string) error {
	fs := newFlags("product add")
	category := fs.Int64("category", 0, "owning category id")
	description := fs.String("description", "", "product description")
	price := fs.String("price", "", "price, e.g. 19.50")
	image := fs.String("image", "", "image file to upload")
	featured := fs.Bool("featured", false, "show on the featured listing")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *category <= 0 {
		return errors.New("product add: -category is required")
	}
	if strings.TrimSpace(*description) == "" {
		return errors.New("product add: -description is required")
	}
	p, err := model.ParsePrice(*price)
	if err != nil {
		return fmt.Errorf("product add: %w", err)
	}

	product := &model.Product{
		CategoryID:  *category,
		Description: strings.TrimSpace(*description),
		Price:       p,
		Featured:    *featured,
	}
	if *image != "" {
		key, err := a.uploadImage(ctx, *image)
		if err != nil {
			return fmt.Errorf("product add: %w", err)
		}
		product.ProductImage = key
	}
	if err := a.admin.CreateProduct(ctx, product); err != nil {
		if product.ProductImage != "" {
			_ = a.images.Delete(ctx, product.ProductImage)
		}
		if errors.Is(err, repository.ErrNotFound) {
			return fmt.Errorf("product add: category %d does not exist", *category)
		}
		return fmt.Errorf("product add: %w", err)
	}
	fmt.Fprintf(a.out, "created product %d in %q\n", product.ID, product.CategoryName)
	return nil
}

// uploadImage copies a local file into image storage and returns its key.
func (a *app) uploadImage(ctx context.Context, path string) (string, error) {
	f, err := os.Open(path)
	if err != nil {
		return "", err
	}
	defer f.Close()

	key := storage.NewKey("products", filepath.Base(path))
	contentType := mime.TypeByExtension(filepath.Ext(path))
	if err := a.images.Save(ctx, key, f, contentType); err != nil {
		return "", err
	}
	return key, nil
}

func (a *app) productList(ctx context.Context, args []string) error {
	fs := newFlags("product list")
	category := fs.Int64("category", 0, "only products of this category")
	featured := fs.Bool("featured", false, "only featured products")
	if err := parse(fs, args); err != nil {
		return err
	}

	var (
		products []*model.Product
		err      error
	)
	switch {
	case *category > 0:
		if _, err = a.catalog.GetCategory(ctx, *category); err != nil {
			return fmt.Errorf("product list: category %d: %w", *category, err)
		}
		products, err = a.catalog.ListProductsByCategory(ctx, *category)
	case *featured:
		products, err = a.catalog.ListFeaturedProducts(ctx)
	default:
		products, err = a.catalog.ListProducts(ctx)
	}
	if err != nil {
		return fmt.Errorf("product list: %w", err)
	}

	tw := a.table()
	fmt.Fprintln(tw, "ID\tCATEGORY\tPRICE\tFEATURED\tCREATED\tDESCRIPTION")
	for _, p := range products {
		if *featured && !p.Featured {
			continue
		}
		fmt.Fprintf(tw, "%d\t%s\t%s\t%t\t%s\t%s\n",
			p.ID, p.CategoryName, p.Price, p.Featured, p.CreatedAt.Format(time.DateTime), p.Description)
	}
	return tw.Flush()
}

// productImport creates products from a JSON array. Every entry is validated
// first; nothing is written unless the whole file is valid.
func (a *app) productImport(ctx context.Context, args []string) error {
	fs := newFlags("product import")
	file := fs.String("file", "", "JSON file holding an array of products")
	if err := parse(fs, args); err != nil {
		return err
	}
	if *file == "" {
		return errors.New("product import: -file is required")
	}
	data, err := os.ReadFile(*file)
	if err != nil {
		return fmt.Errorf("product import: %w", err)
	}

	var entries []json.RawMessage
	if err := json.Unmarshal(data, &entries); err != nil {
		return fmt.Errorf("product import: %s is not a JSON array: %w", *file, err)
	}

	products := make([]*model.Product, 0, len(entries))
	var problems []string
	for i, raw := range entries {
		in, err := view.DecodeProductInput(raw)
		if err != nil {
			problems = append(problems, fmt.Sprintf("entry %d: %v", i, err))
			continue
		}
		products = append(products, in.Model())
	}
	if len(problems) > 0 {
		return fmt.Errorf("product import: %d invalid entries:\n  %s", len(problems), strings.Join(problems, "\n  "))
	}

	for i, p := range products {
		if err := a.admin.CreateProduct(ctx, p); err != nil {
			return fmt.Errorf("product import: entry %d (imported %d of %d): %w", i, i, len(products), err)
		}
	}
	fmt.Fprintf(a.out, "imported %d products\n", len(products))
	return nil
}

func (a *app) productFeature(ctx context.Context, args []string) error {
	fs := newFlags("product feature")
	id := fs.Int64("id", 0, "product id")
	off := fs.Bool("off", false, "remove from the featured listing")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := requireID(fs.Name(), *id); err != nil {
		return err
	}
	if err := a.admin.SetProductFeatured(ctx, *id, !*off); err != nil {
		return fmt.Errorf("product feature: %w", err)
	}
	fmt.Fprintf(a.out, "product %d featured=%t\n", *id, !*off)
	return nil
}

func (a *app) productPrice(ctx context.Context, args []string) error {
	fs := newFlags("product price")
	id := fs.Int64("id", 0, "product id")
	price := fs.String("price", "", "new price, e.g. 19.50")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := requireID(fs.Name(), *id); err != nil {
		return err
	}
	p, err := model.ParsePrice(*price)
	if err != nil {
		return fmt.Errorf("product price: %w", err)
	}
	if err := a.admin.SetProductPrice(ctx, *id, p); err != nil {
		return fmt.Errorf("product price: %w", err)
	}
	fmt.Fprintf(a.out, "product %d price=%s\n", *id, p)
	return nil
}

// ---------------------------------------------------------------------------
// contact
// ---------------------------------------------------------------------------

func (a *app) contactList(ctx context.Context, args []string) error {
	fs := newFlags("contact list")
	unread := fs.Bool("unread", false, "only unread messages")
	limit := fs.Int("limit", 50, "maximum number of messages")
	offset := fs.Int("offset", 0, "messages to skip")
	if err := parse(fs, args); err != nil {
		return err
	}

	contacts, err := a.admin.ListContacts(ctx, model.ContactListOptions{
		UnreadOnly: *unread,
		Limit:      *limit,
		Offset:     *offset,
	})
	if err != nil {
		return fmt.Errorf("contact list: %w", err)
	}

	tw := a.table()
	fmt.Fprintln(tw, "ID\tRECEIVED\tREAD\tNAME\tEMAIL\tMESSAGE")
	for _, c := range contacts {
		fmt.Fprintf(tw, "%d\t%s\t%t\t%s\t%s\t%s\n",
			c.ID, c.CreatedAt.Format(time.DateTime), c.IsRead, c.Name, c.Email, preview(c.Message, 60))
	}
	return tw.Flush()
}

func (a *app) contactRead(ctx context.Context, args []string) error {
	fs := newFlags("contact read")
	id := fs.Int64("id", 0, "contact id")
	if err := parse(fs, args); err != nil {
		return err
	}
	if err := requireID(fs.Name(), *id); err != nil {
		return err
	}
	if err := a.admin.MarkContactRead(ctx, *id); err != nil {
		return fmt.Errorf("contact read: %w", err)
	}
	fmt.Fprintf(a.out, "contact %d marked as read\n", *id)
	return nil
}

// preview flattens a message onto one line and cuts it to max runes.
func preview(s string, max int) string {
	s = strings.Join(strings.Fields(s), " ")
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	return string(r[:max-1]) + "…"
}
